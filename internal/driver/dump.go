package driver

import (
	"encoding/json"

	"errgen/internal/descriptor"
	"errgen/internal/diag"
	"errgen/internal/source"
)

// DumpResult is the parsed IR of one descriptor.
type DumpResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	IR      *descriptor.File // nil on a load or syntax error
}

// Dump parses path without generating anything.
func Dump(path string, opts Options) DumpResult {
	opts = opts.withDefaults()
	fs := source.NewFileSet()
	res := DumpResult{FileSet: fs, Bag: diag.NewBag(opts.MaxDiagnostics)}
	rep := diag.BagReporter{Bag: res.Bag}
	id, err := fs.Load(path)
	if err != nil {
		id = fs.AddVirtual(path, nil)
		diag.ReportError(rep, diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()).Emit()
		return res
	}
	res.IR, _ = descriptor.Parse(fs, id, rep, opts.parseOptions())
	return res
}

// JSON renders the IR indented, with a trailing newline.
func (r DumpResult) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r.IR, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
