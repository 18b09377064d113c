package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
)

// CreateTestServer creates a httptest server with the given handler and
// closes it on cleanup.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// CleanupResponseBody closes the response body on cleanup.
func CleanupResponseBody(t *testing.T, resp *http.Response) {
	t.Helper()
	if resp != nil && resp.Body != nil {
		t.Cleanup(func() {
			if err := resp.Body.Close(); err != nil {
				t.Logf("Warning: failed to close response body: %v", err)
			}
		})
	}
}

// AssertErrorResponse checks the status code and that the error body
// contains expectedErrorMsgPart and a trace ID.
func AssertErrorResponse(
	t *testing.T,
	resp *http.Response,
	expectedStatus int,
	expectedErrorMsgPart string,
) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode,
		"Expected status code %d but got %d", expectedStatus, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	var errResp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "Failed to unmarshal error response: %s", string(body))

	assert.Contains(t, errResp.Error, expectedErrorMsgPart,
		"Error message should contain '%s' but got '%s'", expectedErrorMsgPart, errResp.Error)
	assert.NotEmpty(t, errResp.TraceID, "Error response should carry a trace ID")
}
