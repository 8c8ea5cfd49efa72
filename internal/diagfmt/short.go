package diagfmt

import (
	"io"

	"errgen/internal/diag"
	"errgen/internal/source"
)

// Short writes one line per diagnostic:
// <severity> <CODE> <path>:<line>:<col> <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, pathMode PathMode, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes, pathMode.mode())
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
