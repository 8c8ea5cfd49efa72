// Package fix applies the suggested edits attached to diagnostics back to
// descriptor files on disk.
package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"errgen/internal/diag"
	"errgen/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix in source order.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every fix that does not overlap an earlier one.
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
	// DryRun computes the new contents without writing them.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	Path      string
	EditCount int
}

// SkippedFix captures a fix that was not applied, with a reason.
type SkippedFix struct {
	Title  string
	Path   string
	Reason string
}

// FileChange is the new content of one modified file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and rewrites the affected files. Spans refer to the contents held by fs.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	var cands []candidate
	for _, d := range diagnostics {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, SkippedFix{Title: f.Title, Path: pathOf(fs, d.Primary.File), Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	if len(cands) == 0 {
		return result, ErrNoFixes
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.diag.Primary.File != b.diag.Primary.File {
			return int(a.diag.Primary.File) - int(b.diag.Primary.File)
		}
		if a.diag.Primary.Start != b.diag.Primary.Start {
			return int(a.diag.Primary.Start) - int(b.diag.Primary.Start)
		}
		return a.order - b.order
	})

	accepted := make(map[source.FileID][]diag.FixEdit)
	for _, c := range cands {
		if opts.Mode == ApplyModeOnce && len(result.Applied) > 0 {
			break
		}
		path := pathOf(fs, c.diag.Primary.File)
		if reason := checkCandidate(fs, c.fix, accepted); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{Title: c.fix.Title, Path: path, Reason: reason})
			continue
		}
		for _, e := range c.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		result.Applied = append(result.Applied, AppliedFix{
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Message:   c.diag.Message,
			Path:      path,
			EditCount: len(c.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		file := fs.Get(id)
		change := FileChange{
			Path:      file.Path,
			EditCount: len(accepted[id]),
			Content:   applyEdits(file.Content, accepted[id]),
		}
		if !opts.DryRun {
			if err := writeFile(file.Path, change.Content); err != nil {
				return result, err
			}
		}
		result.FileChanges = append(result.FileChanges, change)
	}
	return result, nil
}

func checkCandidate(fs *source.FileSet, f diag.Fix, accepted map[source.FileID][]diag.FixEdit) string {
	for i, e := range f.Edits {
		if int(e.Span.File) >= fs.Len() {
			return "unknown file"
		}
		file := fs.Get(e.Span.File)
		switch {
		case file.Flags&source.FileVirtual != 0:
			return "target file is virtual"
		case file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF) != 0:
			return "file was normalized on load"
		case e.Span.Start > e.Span.End || int(e.Span.End) > len(file.Content):
			return "edit span out of range"
		}
		for _, prev := range accepted[e.Span.File] {
			if spansConflict(prev.Span, e.Span) {
				return "conflicts with a previously applied edit"
			}
		}
		for _, other := range f.Edits[:i] {
			if other.Span.File == e.Span.File && spansConflict(other.Span, e.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// spansConflict reports whether two half-open spans overlap. Two insertions
// at the same point conflict as well, their order would be ambiguous.
func spansConflict(a, b source.Span) bool {
	if a.Start == a.End && b.Start == b.End {
		return a.Start == b.Start
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// applyEdits применяет непересекающиеся правки с конца файла к началу.
func applyEdits(content []byte, edits []diag.FixEdit) []byte {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b diag.FixEdit) int { return int(b.Span.Start) - int(a.Span.Start) })
	out := slices.Clone(content)
	for _, e := range sorted {
		out = slices.Concat(out[:e.Span.Start], []byte(e.NewText), out[e.Span.End:])
	}
	return out
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".errgen-fix-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr, os.Chmod(tmp.Name(), mode)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func pathOf(fs *source.FileSet, id source.FileID) string {
	if int(id) >= fs.Len() {
		return ""
	}
	return fs.Get(id).Path
}
