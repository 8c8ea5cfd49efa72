package fuzztests

import (
	"testing"

	"errgen/internal/codegen"
	"errgen/internal/descriptor"
	"errgen/internal/diag"
	"errgen/internal/fmtstr"
	"errgen/internal/source"
	"errgen/internal/testkit"
)

func FuzzCompileTemplate(f *testing.F) {
	for _, s := range []string{"", "plain", "{a}", "{a:?}", "{{}}", "{", "}", "{}", "{x}}", "{0} {1:>8}"} {
		f.Add(s, false)
		f.Add(s, true)
	}
	f.Fuzz(func(t *testing.T, s string, lenient bool) {
		policy := fmtstr.PolicyStrict
		if lenient {
			policy = fmtstr.PolicyLenient
		}
		tmpl, err := fmtstr.CompileWith(s, policy)
		if cerr := testkit.CheckTemplate(s, tmpl, err); cerr != nil {
			t.Fatal(cerr)
		}
	})
}

func FuzzDescriptorPipeline(f *testing.F) {
	addDescriptorSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.go", input)
		bag := diag.NewBag(128)
		ir, ok := descriptor.Parse(fs, id, diag.BagReporter{Bag: bag}, descriptor.Options{})
		if err := testkit.CheckDiagnosticSpans(bag, fs); err != nil {
			t.Fatal(err)
		}
		if !ok || ir == nil {
			return
		}
		if err := testkit.CheckDescriptorSpans(ir, fs.Get(id)); err != nil {
			t.Fatal(err)
		}
		if bag.HasErrors() {
			return
		}
		// ошибка форматирования допустима, паника нет
		_, _ = codegen.Generate(ir, codegen.Options{})
	})
}
