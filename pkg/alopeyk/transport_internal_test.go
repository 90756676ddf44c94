package alopeyk

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBody struct {
	io.Reader
	closes int
}

func (b *countingBody) Close() error {
	b.closes++
	return nil
}

type countingRoundTripper struct {
	status   int
	body     *countingBody
	err      error
	releases int
}

func (rt *countingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.err != nil {
		return nil, rt.err
	}
	return &http.Response{
		StatusCode: rt.status,
		Body:       rt.body,
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func (rt *countingRoundTripper) CloseIdleConnections() {
	rt.releases++
}

func testOptions(t *testing.T) *TransportOptions {
	t.Helper()
	opts, err := buildOptions("https://api.test/api/v2/", "token", getRequest("show-profile"))
	require.NoError(t, err)
	return opts
}

func TestHTTPTransport_ReleasesOnSuccess(t *testing.T) {
	rt := &countingRoundTripper{status: http.StatusOK, body: &countingBody{Reader: strings.NewReader(`{"ok":true}`)}}
	transport := &HTTPTransport{newRoundTripper: func(*TransportOptions) roundTripCloser { return rt }}

	body, err := transport.Do(context.Background(), testOptions(t))

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 1, rt.body.closes)
	assert.Equal(t, 1, rt.releases)
}

func TestHTTPTransport_ReleasesOnErrorStatus(t *testing.T) {
	rt := &countingRoundTripper{status: http.StatusInternalServerError, body: &countingBody{Reader: strings.NewReader(`oops`)}}
	transport := &HTTPTransport{newRoundTripper: func(*TransportOptions) roundTripCloser { return rt }}

	_, err := transport.Do(context.Background(), testOptions(t))

	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, rt.body.closes)
	assert.Equal(t, 1, rt.releases)
}

func TestHTTPTransport_ReleasesOnConnectionFailure(t *testing.T) {
	rt := &countingRoundTripper{err: errors.New("connect: connection refused")}
	transport := &HTTPTransport{newRoundTripper: func(*TransportOptions) roundTripCloser { return rt }}

	_, err := transport.Do(context.Background(), testOptions(t))

	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, rt.releases)
}

func TestHTTPTransport_PerCallRoundTripper(t *testing.T) {
	var built int
	transport := &HTTPTransport{newRoundTripper: func(*TransportOptions) roundTripCloser {
		built++
		return &countingRoundTripper{status: http.StatusOK, body: &countingBody{Reader: strings.NewReader(`{}`)}}
	}}

	for i := 0; i < 3; i++ {
		_, err := transport.Do(context.Background(), testOptions(t))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, built)
}

func TestHTTPTransport_DefaultRoundTripper(t *testing.T) {
	opts := testOptions(t)
	rt, ok := NewHTTPTransport().roundTripper(opts).(*http.Transport)

	require.True(t, ok)
	assert.True(t, rt.DisableKeepAlives)
	assert.NotNil(t, rt.TLSNextProto)
	assert.Empty(t, rt.TLSNextProto)
	assert.False(t, rt.ForceAttemptHTTP2)
}

func TestBuildOptions(t *testing.T) {
	t.Run("get has no body", func(t *testing.T) {
		opts, err := buildOptions("https://api.test/", "abc", RequestSpec{Endpoint: "orders/1", Body: map[string]any{"x": 1}})
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, opts.Method)
		assert.Equal(t, "https://api.test/orders/1", opts.URL)
		assert.Nil(t, opts.Body)
	})

	t.Run("any other method posts json", func(t *testing.T) {
		opts, err := buildOptions("https://api.test/", "abc", RequestSpec{Endpoint: "orders", Method: http.MethodPut, Body: map[string]any{"x": 1}})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, opts.Method)
		assert.JSONEq(t, `{"x":1}`, string(opts.Body))
	})

	t.Run("endpoint is appended verbatim", func(t *testing.T) {
		opts, err := buildOptions("https://api.test", "abc", getRequest("//odd?path"))
		require.NoError(t, err)
		assert.Equal(t, "https://api.test//odd?path", opts.URL)
	})

	t.Run("unserializable body", func(t *testing.T) {
		_, err := buildOptions("https://api.test/", "abc", postRequest("orders", map[string]any{"ch": make(chan int)}))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("authorization uses the given token", func(t *testing.T) {
		opts, err := buildOptions("https://api.test/", "resolved", getRequest(""))
		require.NoError(t, err)
		assert.Equal(t, "Bearer resolved", opts.Header.Get("Authorization"))
	})
}
