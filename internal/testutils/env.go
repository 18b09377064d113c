package testutils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupEnv sets environment variables for the duration of the test. An
// empty value unsets the variable. Original values are restored on cleanup.
func SetupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
		if value == "" {
			require.NoError(t, os.Unsetenv(name), "Failed to unset environment variable %s", name)
		}
	}
}

// ClearConfigEnv unsets the variables that select the asset source and
// config file so tests start from defaults.
func ClearConfigEnv(t *testing.T) {
	t.Helper()
	SetupEnv(t, map[string]string{
		"SCRY_CONFIG_FILE":        "",
		"SCRY_ASSETS_SOURCE":      "",
		"SCRY_ASSETS_FOLDER_ID":   "",
		"SCRY_ASSETS_DIR":         "",
		"SCRY_SERVER_PORT":        "",
		"SCRY_SERVER_LOG_LEVEL":   "",
		"SCRY_ASSETS_PAGE_SIZE":   "",
		"SCRY_SESSION_QUEUE_SIZE": "",
	})
}
