package alopeyk

import (
	"encoding/json"
	"net/http"
	"time"
)

// RequestSpec describes one API call before transport resolution.
type RequestSpec struct {
	Endpoint string
	Method   string
	Body     any
}

// TransportOptions is the fully resolved input of a single transport call.
type TransportOptions struct {
	URL          string
	Method       string
	Header       http.Header
	Body         []byte
	Timeout      time.Duration
	MaxRedirects int
	ForceHTTP11  bool
	FailOnError  bool
}

func getRequest(endpoint string) RequestSpec {
	return RequestSpec{Endpoint: endpoint, Method: http.MethodGet}
}

func postRequest(endpoint string, body any) RequestSpec {
	return RequestSpec{Endpoint: endpoint, Method: http.MethodPost, Body: body}
}

// prepare runs the capability and credential checks, in that order, and
// builds the transport options for spec.
func (c *Client) prepare(spec RequestSpec) (*TransportOptions, error) {
	if !c.transport.SupportsTLS() {
		return nil, NewError(KindCapability, "the transport does not support TLS, enable it before calling the API")
	}

	token, ok := c.credentials.Resolve()
	if !ok {
		return nil, NewError(KindAuth, "invalid access token: all endpoints require a JWT bearer token, set one in the configuration or with SetToken")
	}

	return buildOptions(c.config.APIURL, token, spec)
}

// buildOptions is pure: the Authorization header always carries token.
func buildOptions(apiURL, token string, spec RequestSpec) (*TransportOptions, error) {
	header := make(http.Header)
	header.Set("Authorization", "Bearer "+token)
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set("X-Requested-With", "XMLHttpRequest")

	opts := &TransportOptions{
		URL:          apiURL + spec.Endpoint,
		Method:       http.MethodGet,
		Header:       header,
		Timeout:      RequestTimeout,
		MaxRedirects: MaxRedirects,
		ForceHTTP11:  true,
		FailOnError:  true,
	}

	if spec.Method == "" || spec.Method == http.MethodGet {
		return opts, nil
	}

	body, err := json.Marshal(spec.Body)
	if err != nil {
		return nil, NewError(KindValidation, "request body is not JSON-serializable").WithCause(err)
	}
	opts.Method = http.MethodPost
	opts.Body = body
	return opts, nil
}
