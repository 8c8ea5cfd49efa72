package diag

import "errgen/internal/source"

// DedupReporter forwards the first diagnostic for each code and primary span
// and drops the rest. A descriptor check that fires once per reference (a
// field named in several templates, say) reports its span once.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

type dedupKey struct {
	code Code
	span source.Span
}

// NewDedupReporter wraps next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	key := dedupKey{code: code, span: primary}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed returns how many diagnostics were dropped.
func (r *DedupReporter) Suppressed() int { return r.suppressed }
