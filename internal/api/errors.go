package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// MessageFromBody extracts a human-readable message from a failed
// response of unknown shape. It tries a structured {"message": ...}
// body first, then the raw body text, then a generic status line.
//
// It sits on the rejection path, so it never fails: some non-empty
// string always comes back.
func MessageFromBody(status int, body []byte) string {
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	text := http.StatusText(status)
	if text == "" {
		text = "request failed"
	}
	return fmt.Sprintf("HTTP %d: %s", status, text)
}

// errorFromResponse maps a non-2xx response to a coded error carrying
// the normalized message.
func errorFromResponse(status int, body []byte) *output.Error {
	msg := MessageFromBody(status, body)

	switch status {
	case http.StatusUnauthorized:
		return output.ErrAuth(msg)
	case http.StatusNotFound:
		return &output.Error{
			Code:       output.CodeNotFound,
			Message:    msg,
			HTTPStatus: status,
		}
	default:
		return output.ErrAPI(status, msg)
	}
}
