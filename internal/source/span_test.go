package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}

func TestSpanSub(t *testing.T) {
	tests := []struct {
		name       string
		span       Span
		start, end uint32
		expected   Span
	}{
		{"inner range", Span{File: 1, Start: 10, End: 30}, 2, 5, Span{File: 1, Start: 12, End: 15}},
		{"whole span", Span{File: 1, Start: 10, End: 30}, 0, 20, Span{File: 1, Start: 10, End: 30}},
		{"past end falls back", Span{File: 1, Start: 10, End: 30}, 5, 25, Span{File: 1, Start: 10, End: 30}},
		{"inverted falls back", Span{File: 1, Start: 10, End: 30}, 5, 2, Span{File: 1, Start: 10, End: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Sub(tt.start, tt.end); got != tt.expected {
				t.Errorf("Sub(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.expected)
			}
		})
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 1, Start: 0, End: 10}
	if !outer.Contains(Span{File: 1, Start: 2, End: 10}) {
		t.Error("expected containment")
	}
	if outer.Contains(Span{File: 1, Start: 2, End: 11}) {
		t.Error("unexpected containment past end")
	}
	if outer.Contains(Span{File: 2, Start: 2, End: 3}) {
		t.Error("unexpected containment across files")
	}
}

func TestSpanShiftRight(t *testing.T) {
	s := Span{File: 1, Start: 3, End: 7}.ShiftRight(4)
	if s.Start != 7 || s.End != 11 || s.Len() != 4 {
		t.Errorf("ShiftRight = %v", s)
	}
	if !(Span{Start: 4, End: 4}).Empty() {
		t.Error("expected empty span")
	}
}
