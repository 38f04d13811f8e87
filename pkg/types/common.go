package types

import (
	"github.com/oklog/ulid/v2"
)

// GenerateID returns a prefixed ULID string. ULIDs are time-ordered and
// collision-free within the same millisecond, which also keeps backup
// filenames unique when the same file is snapshotted twice in a second.
func GenerateID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

func GenerateOperationID() string { return GenerateID("op") }
func GenerateBackupID() string    { return GenerateID("bak") }

// Usage reports token consumption of a model call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
