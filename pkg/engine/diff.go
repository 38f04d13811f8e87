package engine

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffPreview renders a unified-style patch between two versions of a
// file's content, suitable for showing what a modify changed.
func DiffPreview(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches)
}
