package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DecodeJSON decodes a recorded response body into a generic map
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body),
		"response body should be valid JSON: %s", rec.Body.String())
	return body
}

// AssertErrorDetail asserts that the response carries the given status and
// the uniform {"detail": ...} error body.
func AssertErrorDetail(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantDetail string) {
	t.Helper()

	assert.Equal(t, wantStatus, rec.Code)
	body := DecodeJSON(t, rec)
	assert.Equal(t, wantDetail, body["detail"])
}

// CookieByName extracts a set cookie from a recorded response, or nil
func CookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
