package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
)

const testOrderJSON = `{
	"transport_type": "motorbike",
	"origin": {"lat": 35.755460, "lng": 51.416874},
	"destinations": [{"lat": 35.758495, "lng": 51.442550}]
}`

func mockEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ALOPEYK_USE_MOCK", "true")
	t.Setenv("ALOPEYK_TOKEN", "jwt")
	t.Setenv("ALOPEYK_ENV", "sandbox")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, stdin string, args ...string) (map[string]any, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded), out.String())
	return decoded, nil
}

func TestCLI_Profile(t *testing.T) {
	mockEnv(t)

	out, err := execute(t, "", "profile")

	require.NoError(t, err)
	assert.Equal(t, "success", out["status"])
}

func TestCLI_MissingToken(t *testing.T) {
	mockEnv(t)
	t.Setenv("ALOPEYK_TOKEN", alopeyk.TokenPlaceholder)

	_, err := execute(t, "", "auth")

	require.Error(t, err)
	assert.ErrorIs(t, err, alopeyk.ErrAuth)
}

func TestCLI_TokenFlagOverridesEnvironment(t *testing.T) {
	mockEnv(t)
	t.Setenv("ALOPEYK_TOKEN", alopeyk.TokenPlaceholder)

	out, err := execute(t, "", "--token", "flag-jwt", "auth")

	require.NoError(t, err)
	assert.Equal(t, "success", out["status"])
}

func TestCLI_Price_FromStdin(t *testing.T) {
	mockEnv(t)

	out, err := execute(t, testOrderJSON, "price")

	require.NoError(t, err)
	object := out["object"].(map[string]any)
	assert.Equal(t, 42000.0, object["price"])
}

func TestCLI_OrderCreate_FromFile(t *testing.T) {
	mockEnv(t)
	path := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(path, []byte(testOrderJSON), 0o600))

	out, err := execute(t, "", "order", "create", "-f", path)

	require.NoError(t, err)
	object := out["object"].(map[string]any)
	assert.Equal(t, "mock-token", object["order_token"])
}

func TestCLI_OrderCreate_BadFile(t *testing.T) {
	mockEnv(t)

	_, err := execute(t, "", "order", "create", "-f", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, `{"transport_type": "motorbike", "colour": "red"}`, "price")
	assert.Error(t, err)
}

func TestCLI_OrderGetAndCancel(t *testing.T) {
	mockEnv(t)

	_, err := execute(t, "", "order", "get", "12")
	require.NoError(t, err)

	out, err := execute(t, "", "order", "cancel", "12", "--comment", "wrong address")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out["object"].(map[string]any)["status"])

	_, err = execute(t, "", "order", "get", "twelve")
	assert.ErrorIs(t, err, alopeyk.ErrValidation)
}

func TestCLI_Address(t *testing.T) {
	mockEnv(t)

	_, err := execute(t, "", "address", "--lat", "35.7", "--lng", "51.4")
	require.NoError(t, err)

	_, err = execute(t, "", "address", "--lat", "135.7", "--lng", "51.4")
	assert.ErrorIs(t, err, alopeyk.ErrValidation)
}

func TestCLI_SuggestAndCoupon(t *testing.T) {
	mockEnv(t)

	_, err := execute(t, "", "suggest", "azadi")
	require.NoError(t, err)

	out, err := execute(t, "", "coupon", "SPRING")
	require.NoError(t, err)
	assert.Equal(t, true, out["object"].(map[string]any)["valid"])
}

func TestCLI_Links(t *testing.T) {
	mockEnv(t)
	sandbox := alopeyk.SandboxConfig()

	out, err := execute(t, "", "tracking-url", "tok")
	require.NoError(t, err)
	assert.Equal(t, sandbox.TrackingURL+"#/tok", out["url"])

	out, err = execute(t, "", "invoice-url", "42", "tok")
	require.NoError(t, err)
	assert.Equal(t, sandbox.URL+"/order/42/print?token=tok", out["url"])

	_, err = execute(t, "", "invoice-url", "forty-two", "tok")
	assert.Error(t, err)

	out, err = execute(t, "", "gateways")
	require.NoError(t, err)
	assert.Equal(t, []any{"saman", "zarinpal"}, out["gateways"])
}

func TestCLI_PaymentRoute(t *testing.T) {
	mockEnv(t)

	out, err := execute(t, "", "payment-route", "--user", "5", "--amount", "20000")
	require.NoError(t, err)
	assert.Contains(t, out["url"], "payments/saman/bank?user_id=5&amount=20000")

	_, err = execute(t, "", "payment-route", "--user", "5", "--amount", "20000", "--gateway", "paypal")
	assert.ErrorIs(t, err, alopeyk.ErrValidation)
}

func TestCLI_InvalidEnvironment(t *testing.T) {
	mockEnv(t)
	t.Setenv("ALOPEYK_ENV", "staging")

	_, err := execute(t, "", "profile")
	assert.Error(t, err)
}

func TestCLI_SandboxFlag(t *testing.T) {
	mockEnv(t)
	t.Setenv("ALOPEYK_ENV", "production")

	out, err := execute(t, "", "--sandbox", "tracking-url", "tok")
	require.NoError(t, err)
	assert.Equal(t, alopeyk.SandboxConfig().TrackingURL+"#/tok", out["url"])
}
