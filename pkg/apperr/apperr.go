// Package apperr defines the sentinel errors every public operation in
// the core is allowed to fail with. Callers classify failures with
// errors.Is; Kind maps an error chain to a stable string for wire
// responses and tool results.
package apperr

import "errors"

var (
	// ErrNotFound means a file or directory was absent where existence
	// was required.
	ErrNotFound = errors.New("not found")

	// ErrBackupUnavailable means a referenced backup no longer resolves
	// to content at restore time.
	ErrBackupUnavailable = errors.New("backup unavailable")

	// ErrEmptyHistory means undo was requested with no recorded operations.
	ErrEmptyHistory = errors.New("no operations to undo")

	// ErrDuplicateTool means a tool name was registered twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool means no tool with the given name is registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMissingParameter means a required tool parameter was absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvocationDenied means the security policy refused a tool call.
	ErrInvocationDenied = errors.New("invocation denied by policy")

	// ErrTimeout means a bounded external call exceeded its allotted time.
	ErrTimeout = errors.New("timed out")

	// ErrExternalService means a collaborator (network, model) failed.
	ErrExternalService = errors.New("external service error")

	// ErrDecodeFailure means content could not be interpreted as text
	// even with the fallback encoding.
	ErrDecodeFailure = errors.New("content is not decodable text")
)

// Kind returns the stable identifier for the first known sentinel in
// err's chain, or "internal" if none matches.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBackupUnavailable):
		return "backup_unavailable"
	case errors.Is(err, ErrEmptyHistory):
		return "empty_history"
	case errors.Is(err, ErrDuplicateTool):
		return "duplicate_name"
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, ErrInvocationDenied):
		return "invocation_denied"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrExternalService):
		return "external_service_error"
	case errors.Is(err, ErrDecodeFailure):
		return "decode_failure"
	}
	return "internal"
}
