package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(format Format) (*Writer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Options{Format: format, Writer: buf}), buf
}

func TestJSONEnvelopeSuccess(t *testing.T) {
	w, buf := newTestWriter(FormatJSON)
	require.NoError(t, w.OK(map[string]any{"email": "a@b.c"}, WithSummary("Logged in")))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "Logged in", resp.Summary)
	assert.Equal(t, map[string]any{"email": "a@b.c"}, resp.Data)
}

func TestJSONEnvelopeError(t *testing.T) {
	w, buf := newTestWriter(FormatJSON)
	require.NoError(t, w.Err(ErrAuth("Not logged in")))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "Not logged in", resp.Error)
	assert.Equal(t, CodeAuth, resp.Code)
	assert.Equal(t, "Run: impact auth login", resp.Hint)
}

func TestQuietStripsEnvelope(t *testing.T) {
	w, buf := newTestWriter(FormatQuiet)
	require.NoError(t, w.OK("tok-123"))

	var data string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "tok-123", data)
	assert.NotContains(t, buf.String(), `"ok"`)
}

func TestTextRendersSortedKeys(t *testing.T) {
	w, buf := newTestWriter(FormatText)
	require.NoError(t, w.OK(
		map[string]any{"name": "Notch", "id": "069a79f4"},
		WithSummary("Resolved"),
	))

	assert.Equal(t, "Resolved\nid: 069a79f4\nname: Notch\n", buf.String())
}

func TestTextRendersRawMessage(t *testing.T) {
	w, buf := newTestWriter(FormatText)
	require.NoError(t, w.OK(json.RawMessage(`{"valid":true}`)))
	assert.Equal(t, "valid: true\n", buf.String())
}

func TestTextError(t *testing.T) {
	w, buf := newTestWriter(FormatText)
	require.NoError(t, w.Err(ErrUsageHint("missing argument", "see --help")))
	assert.Equal(t, "Error: missing argument\nHint: see --help\n", buf.String())
}

func TestAutoFallsBackToJSON(t *testing.T) {
	// A bytes.Buffer is not a TTY, so auto mode emits JSON.
	w, buf := newTestWriter(FormatAuto)
	require.NoError(t, w.OK("x"))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "boom", ErrUsage("boom").Error())
	assert.Equal(t, "boom: try again", ErrUsageHint("boom", "try again").Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrNetwork(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Hint)
}

func TestAsError(t *testing.T) {
	structured := ErrAPI(500, "server exploded")
	assert.Same(t, structured, AsError(structured))

	wrapped := AsError(errors.New("plain"))
	assert.Equal(t, CodeAPI, wrapped.Code)
	assert.Equal(t, "plain", wrapped.Message)
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeUsage, ExitUsage},
		{CodeNotFound, ExitNotFound},
		{CodeAuth, ExitAuth},
		{CodeNetwork, ExitNetwork},
		{CodeAPI, ExitAPI},
		{"something_else", ExitAPI},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCodeFor(tt.code), "code %q", tt.code)
	}

	assert.Equal(t, ExitAuth, ErrAuth("x").ExitCode())
}
