// Package output provides JSON/text output formatting and error handling.
package output

// Exit codes.
const (
	ExitOK       = 0 // Success
	ExitUsage    = 1 // Invalid arguments or flags
	ExitNotFound = 2 // Resource not found
	ExitAuth     = 3 // Not authenticated
	ExitNetwork  = 4 // Connection/DNS/timeout error
	ExitAPI      = 5 // Server returned error
)

// Error codes for the JSON envelope.
const (
	CodeUsage    = "usage"
	CodeNotFound = "not_found"
	CodeAuth     = "auth_required"
	CodeNetwork  = "network"
	CodeAPI      = "api_error"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeNotFound:
		return ExitNotFound
	case CodeAuth:
		return ExitAuth
	case CodeNetwork:
		return ExitNetwork
	case CodeAPI:
		return ExitAPI
	default:
		return ExitAPI
	}
}
