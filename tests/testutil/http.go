package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// JSONResponse parses the recorded response body as a generic JSON object
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "failed to parse JSON response")
	return result
}

// JSONResponseAs parses the recorded response body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.ResponseBody(), &result), "failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the envelope carries success with no error
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, true, resp["success"], "expected success to be true")
	assert.Nil(t, resp["error"], "expected no error")
}

// AssertErrorResponse asserts the envelope carries the expected error code
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.Equal(t, false, resp["success"], "expected success to be false")

	errMap, ok := resp["error"].(map[string]interface{})
	require.True(t, ok, "expected error object in response")
	assert.Equal(t, expectedCode, errMap["code"], "unexpected error code")
}

// ToJSONReader marshals v for use as a request body
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "failed to marshal to JSON")
	return bytes.NewReader(data)
}
