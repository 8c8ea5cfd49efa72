package diag

import (
	"testing"

	"errgen/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/pkg/errors.go", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     DescDupeSource,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "first source here"},
				{Span: source.Span{File: 99, Start: 0, End: 0}, Msg: "dangling"},
			},
		},
		{
			Severity: SevWarning,
			Code:     DescMissingBuildTag,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "error GEN2003 pkg/errors.go:1:1 first line second\n" +
		"note GEN2003 pkg/errors.go:2:1 first source here\n" +
		"warning GEN2013 pkg/errors.go:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsBasename(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("/workspace/pkg/errors.go", []byte("x\n"), 0)
	diags := []Diagnostic{NewError(FmtUnterminated, source.Span{File: id}, "malformed")}

	want := "error GEN1001 errors.go:1:1 malformed"
	if got := FormatShortDiagnostics(diags, fs, false, "basename"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatShortKeepsNotesAfterPrimary(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("/workspace/errors.go", []byte("type E struct {\n\tOpen struct {\n\t\tcause error\n\t}\n}\n"), 0)
	diags := []Diagnostic{{
		Severity: SevError,
		Code:     DescSourceMustBeNamed,
		Message:  "field must be named source",
		Primary:  source.Span{File: id, Start: 33, End: 38},
		Notes:    []Note{{Span: source.Span{File: id, Start: 17, End: 21}, Msg: "in variant Open"}},
	}}

	want := "error GEN2007 errors.go:3:3 field must be named source\n" +
		"note GEN2007 errors.go:2:2 in variant Open"
	if got := FormatShortDiagnostics(diags, fs, true, "basename"); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
