package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImpactDevelopment/impact-cli/internal/appctx"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// runFailingRoot executes the root command with the given args in an
// isolated environment where no credential is stored, returning the app
// built during startup and the command's error.
func runFailingRoot(t *testing.T, args ...string) (*appctx.App, error) {
	t.Helper()
	t.Setenv("IMPACT_TOKEN", "")
	t.Setenv("IMPACT_NO_KEYRING", "1")
	t.Setenv("IMPACT_CONFIG_DIR", t.TempDir())

	cmd, app := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return app(), err
}

func TestErrorsUseEnvelopeWriter(t *testing.T) {
	a, err := runFailingRoot(t, "--json", "auth", "token")
	require.Error(t, err)
	require.NotNil(t, a, "app must be available to the error path after startup")

	buf := &bytes.Buffer{}
	a.Output = output.New(output.Options{Format: output.FormatJSON, Writer: buf})
	renderError(a, err, &bytes.Buffer{})

	var resp output.ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, output.CodeAuth, resp.Code)
	assert.Equal(t, "Not logged in", resp.Error)
	assert.Equal(t, "Run: impact auth login", resp.Hint)
}

func TestRenderErrorFallsBackBeforeStartup(t *testing.T) {
	// Flag-parse and config-load failures happen before an app exists.
	stderr := &bytes.Buffer{}
	renderError(nil, output.ErrUsageHint("missing argument", "see --help"), stderr)
	assert.Equal(t, "Error: missing argument\nHint: see --help\n", stderr.String())
}

func TestVerboseFlagCounts(t *testing.T) {
	a, err := runFailingRoot(t, "-vv", "auth", "token")
	require.Error(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 2, a.Flags.Verbose)
}
