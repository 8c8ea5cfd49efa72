package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	done := tm.Track("parse")
	time.Sleep(time.Millisecond)
	done("2 enums")
	idx := tm.Begin("generate")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Note != "2 enums" || r.Phases[0].DurationMS < 1 {
		t.Fatalf("parse phase = %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %.2f below phase %.2f", r.TotalMS, r.Phases[0].DurationMS)
	}
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "// 2 enums") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() { tm.Track("file")("") })
	}
	wg.Wait()
	if n := len(tm.Report().Phases); n != 8 {
		t.Fatalf("got %d phases", n)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer must be empty")
	}
}
