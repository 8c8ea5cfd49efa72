package descriptor

import (
	"fmt"
	"go/build/constraint"

	"errgen/internal/diag"
	"errgen/internal/source"
)

// checkBuildConstraint reports whether the file's //go:build line excludes
// it from builds without the errgen tag, and warns when it does not.
func (p *parser) checkBuildConstraint() bool {
	tag := p.opts.BuildTag
	for _, cg := range p.file.Comments {
		if cg.Pos() >= p.file.Package {
			break
		}
		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				continue
			}
			// a normal build: every tag but ours is satisfied
			normal := expr.Eval(func(t string) bool { return t != tag })
			tagged := expr.Eval(func(string) bool { return true })
			if !normal && tagged {
				return true
			}
			diag.ReportWarning(p.rep, diag.DescMissingBuildTag, p.fs.SpanOf(p.id, p.offset(c.Slash), p.offset(c.End())),
				fmt.Sprintf(msgMissingBuildTag, tag, tag)).Emit()
			return false
		}
	}
	diag.ReportWarning(p.rep, diag.DescMissingBuildTag, source.Span{File: p.id},
		fmt.Sprintf(msgMissingBuildTag, tag, tag)).
		WithFix("add build constraint", diag.FixEdit{Span: source.Span{File: p.id}, NewText: "//go:build " + tag + "\n\n"}).
		Emit()
	return false
}
