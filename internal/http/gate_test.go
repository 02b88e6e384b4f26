package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatedOK(t *testing.T, creds GateCredentials) http.Handler {
	t.Helper()
	return Gate(creds)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGateRejectsMissingCredentials(t *testing.T) {
	h := gatedOK(t, GateCredentials{Login: "ops", Password: "sekrit"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="processdocs", charset="UTF-8"`, rec.Header().Get("WWW-Authenticate"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "authentication_required", resp["error"])
}

func TestGateRejectsWrongCredentials(t *testing.T) {
	h := gatedOK(t, GateCredentials{Login: "ops", Password: "sekrit"})

	tests := []struct {
		name     string
		login    string
		password string
	}{
		{name: "wrong password", login: "ops", password: "guess"},
		{name: "wrong login", login: "intruder", password: "sekrit"},
		{name: "both wrong", login: "intruder", password: "guess"},
		{name: "empty pair", login: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/abc", nil)
			req.SetBasicAuth(tt.login, tt.password)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGateAcceptsCorrectCredentials(t *testing.T) {
	h := gatedOK(t, GateCredentials{Login: "ops", Password: "sekrit"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/abc", nil)
	req.SetBasicAuth("ops", "sekrit")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestGateDisabledPassesThrough(t *testing.T) {
	h := gatedOK(t, GateCredentials{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateCredentialsEnabled(t *testing.T) {
	assert.False(t, GateCredentials{}.Enabled())
	assert.False(t, GateCredentials{Login: "ops"}.Enabled())
	assert.False(t, GateCredentials{Password: "sekrit"}.Enabled())
	assert.True(t, GateCredentials{Login: "ops", Password: "sekrit"}.Enabled())
}
