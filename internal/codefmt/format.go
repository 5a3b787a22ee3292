package codefmt

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
)

// wd is the cached working directory.
var wd, _ = os.Getwd()

// FormatPosition renders a position relative to the working directory.
func FormatPosition(pos token.Position) string {
	if !pos.IsValid() {
		return "-:-"
	}

	filename := pos.Filename
	if rel, err := filepath.Rel(wd, filename); err == nil {
		filename = rel
	}

	return fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
}
