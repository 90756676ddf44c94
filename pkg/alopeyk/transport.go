package alopeyk

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

// Transport performs exactly one round trip per call.
type Transport interface {
	// Do executes the request and returns the raw response body. Any failure,
	// including a non-2xx status when FailOnError is set, is returned as an error.
	Do(ctx context.Context, opts *TransportOptions) ([]byte, error)

	// SupportsTLS reports whether the transport can reach HTTPS endpoints.
	SupportsTLS() bool
}

// roundTripCloser is the per-call connection resource of HTTPTransport.
type roundTripCloser interface {
	http.RoundTripper
	CloseIdleConnections()
}

// HTTPTransport is the production Transport. It never shares connections
// between calls: each call dials through its own http.Transport, which is
// torn down before Do returns.
type HTTPTransport struct {
	// TLSConfig is cloned into each call. Nil uses the system defaults.
	TLSConfig *tls.Config

	newRoundTripper func(opts *TransportOptions) roundTripCloser
}

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{}
}

// SupportsTLS always reports true; crypto/tls is part of every Go build.
func (t *HTTPTransport) SupportsTLS() bool {
	return true
}

// Do executes the request described by opts.
func (t *HTTPTransport) Do(ctx context.Context, opts *TransportOptions) ([]byte, error) {
	rt := t.roundTripper(opts)
	defer rt.CloseIdleConnections()

	client := &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > opts.MaxRedirects {
				return fmt.Errorf("maximum (%d) redirects followed", opts.MaxRedirects)
			}
			// 301, 302 and 303 turn a POST into a bodyless GET.
			if req.Method != via[0].Method {
				return fmt.Errorf("redirect from %s would change method %s to %s", via[len(via)-1].URL, via[0].Method, req.Method)
			}
			return nil
		},
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyReader = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		return nil, transportError(err)
	}
	req.Header = opts.Header.Clone()

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if opts.FailOnError && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, NewError(KindTransport, fmt.Sprintf("the requested URL returned error: %d", resp.StatusCode)).
			WithStatusCode(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	return body, nil
}

func (t *HTTPTransport) roundTripper(opts *TransportOptions) roundTripCloser {
	if t.newRoundTripper != nil {
		return t.newRoundTripper(opts)
	}

	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}
	if t.TLSConfig != nil {
		tr.TLSClientConfig = t.TLSConfig.Clone()
	}
	if opts.ForceHTTP11 {
		// A non-nil empty map disables the HTTP/2 upgrade.
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	} else {
		tr.ForceAttemptHTTP2 = true
	}
	return tr
}

var _ Transport = (*HTTPTransport)(nil)
