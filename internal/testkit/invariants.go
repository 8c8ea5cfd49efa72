// Package testkit holds invariant checks shared by fuzz harnesses and
// package tests.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"errgen/internal/descriptor"
	"errgen/internal/diag"
	"errgen/internal/fmtstr"
	"errgen/internal/source"
)

// CheckTemplate verifies a CompileWith result against its input:
// 1) on success every Arg names the exact bytes at its offset
// 2) on failure the error range lies inside the input
func CheckTemplate(s string, tmpl fmtstr.Template, err error) error {
	if err != nil {
		if fe, ok := err.(*fmtstr.Error); ok {
			if fe.Offset < 0 || fe.Len < 0 || fe.Offset+fe.Len > len(s) {
				return fmt.Errorf("error range [%d,+%d) outside input of %d bytes", fe.Offset, fe.Len, len(s))
			}
		}
		return nil
	}
	if len(tmpl.Args) > strings.Count(s, "{") {
		return fmt.Errorf("%d args from %d opening braces", len(tmpl.Args), strings.Count(s, "{"))
	}
	for i, a := range tmpl.Args {
		end := a.Offset + len(a.Name)
		if a.Offset < 0 || end > len(s) || s[a.Offset:end] != a.Name {
			return fmt.Errorf("arg %d %q does not match input at offset %d", i, a.Name, a.Offset)
		}
	}
	return nil
}

// CheckDescriptorSpans verifies that every span of f points into sf.
func CheckDescriptorSpans(f *descriptor.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil descriptor or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	check := func(what string, sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > size {
			return fmt.Errorf("%s: span %v outside content of %d bytes", what, sp, size)
		}
		return nil
	}
	for _, e := range f.Enums {
		if err := check("enum "+e.Name, e.Span); err != nil {
			return err
		}
		for _, v := range e.Variants {
			where := e.Name + "." + v.Name
			if err := check(where, v.Span); err != nil {
				return err
			}
			for _, fd := range v.Fields {
				if err := check(where+"."+fd.Name, fd.Span); err != nil {
					return err
				}
			}
			for _, m := range append(append([]descriptor.Message(nil), v.Messages...), v.Help...) {
				if err := check(where+" message", m.Span); err != nil {
					return err
				}
				for _, a := range m.Args {
					if err := check(where+" arg "+a.Name, a.Span); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// CheckDiagnosticSpans verifies that every diagnostic, note and fix edit
// resolves inside its file.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	check := func(sp source.Span) error {
		if int(sp.File) >= fs.Len() {
			return fmt.Errorf("span %v: unknown file", sp)
		}
		if sp.Start > sp.End || int(sp.End) > len(fs.Get(sp.File).Content) {
			return fmt.Errorf("span %v outside file content", sp)
		}
		return nil
	}
	for _, d := range bag.Items() {
		if err := check(d.Primary); err != nil {
			return fmt.Errorf("%s: %w", d.Code.ID(), err)
		}
		for _, n := range d.Notes {
			if err := check(n.Span); err != nil {
				return fmt.Errorf("%s note: %w", d.Code.ID(), err)
			}
		}
		for _, fix := range d.Fixes {
			for _, e := range fix.Edits {
				if err := check(e.Span); err != nil {
					return fmt.Errorf("%s fix: %w", d.Code.ID(), err)
				}
			}
		}
	}
	return nil
}
