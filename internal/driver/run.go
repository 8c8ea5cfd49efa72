package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"errgen/internal/codegen"
	"errgen/internal/descriptor"
	"errgen/internal/diag"
	"errgen/internal/source"
	"errgen/internal/trace"
)

// Status is the outcome for one descriptor file.
type Status uint8

const (
	StatusFailed    Status = iota // errors reported, nothing written
	StatusEmpty                   // no enumerations
	StatusWritten                 // generated file created or replaced
	StatusUnchanged               // generated file already up to date
	StatusDryRun                  // generated, not written
	StatusStale                   // check: generated file differs
	StatusUpToDate                // check: generated file matches
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusEmpty:
		return "empty"
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusDryRun:
		return "dry-run"
	case StatusStale:
		return "stale"
	case StatusUpToDate:
		return "up-to-date"
	default:
		return "unknown"
	}
}

// FileResult is the outcome of the pipeline for one descriptor.
type FileResult struct {
	Path   string
	Output string // path of the generated file
	FileID source.FileID
	Bag    *diag.Bag
	IR     *descriptor.File // nil on a cache hit or when loading failed
	Code   []byte           // generated source, when generation succeeded
	Cached bool
	Status Status
}

// Result collects every file of a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Bag merges the per-file bags, sorted. Each file bag is already
// deduplicated by its reporter.
func (r *Result) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for i := range r.Files {
		bag.Merge(r.Files[i].Bag)
	}
	bag.Sort()
	return bag
}

func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if b := r.Files[i].Bag; b != nil && b.HasErrors() {
			return true
		}
	}
	return false
}

// Count returns the number of files that ended with st.
func (r *Result) Count(st Status) int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Status == st {
			n++
		}
	}
	return n
}

// Run processes targets in parallel, bounded by opts.Jobs. Findings are
// diagnostics in the per-file bags; the error is reserved for cancellation.
func Run(ctx context.Context, targets []Target, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, opts.Mode.String())
	defer span.End("")

	fileSet := source.NewFileSet()
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(targets))}
	if len(targets) == 0 {
		return res, nil
	}

	// Предзагружаем все файлы: после этого FileSet только читается.
	doneLoad := opts.Timer.Track("load")
	ids := make([]source.FileID, len(targets))
	loadErrs := make([]error, len(targets))
	for i, t := range targets {
		id, err := fileSet.Load(t.Path)
		if err != nil {
			id = fileSet.AddVirtual(t.Path, nil)
			loadErrs[i] = err
		}
		ids[i] = id
		opts.progress(t.Path, StageQueued, StatusFailed)
	}
	doneLoad(fmt.Sprintf("%d files", len(targets)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(targets)))
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			if loadErrs[i] != nil {
				res.Files[i] = loadFailed(t, ids[i], loadErrs[i], opts)
				return nil
			}
			res.Files[i] = processFile(gctx, fileSet, ids[i], t, opts)
			return nil
		})
	}
	err := g.Wait()
	span.WithExtra("files", fmt.Sprint(len(targets)))
	return res, err
}

func loadFailed(t Target, id source.FileID, err error, opts Options) FileResult {
	res := newFileResult(t, id, opts)
	diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError, source.Span{File: id},
		"failed to load file: "+err.Error()).Emit()
	opts.progress(t.Path, StageDone, StatusFailed)
	return res
}

func newFileResult(t Target, id source.FileID, opts Options) FileResult {
	return FileResult{
		Path:   t.Path,
		Output: codegen.OutputPath(t.Path, opts.Suffix),
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
		Status: StatusFailed,
	}
}

// processFile: cache → parse → generate → write/compare.
func processFile(ctx context.Context, fs *source.FileSet, id source.FileID, t Target, opts Options) (res FileResult) {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+t.Path)
	res = newFileResult(t, id, opts)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	defer func() {
		span.WithExtra("status", res.Status.String())
		if n := rep.Suppressed(); n > 0 {
			span.WithExtra("duplicates", strconv.Itoa(n))
		}
		if res.Cached {
			span.WithExtra("cached", "true")
		}
		span.End("")
		opts.progress(t.Path, StageDone, res.Status)
	}()

	file := fs.Get(id)
	key := CacheKey(file.Hash, opts)
	var entry CacheEntry
	hit, err := opts.Cache.Get(key, &entry)
	if err != nil {
		trace.Error(ctx, "cache", err)
		diag.ReportWarning(rep, diag.IOCacheError, source.Span{File: id}, "cache read failed: "+err.Error()).Emit()
	}

	if hit {
		res.Code = entry.Code
		res.Cached = true
		trace.Point(ctx, trace.ScopeFile, "cache", "hit")
	} else {
		opts.progress(t.Path, StageParse, StatusFailed)
		doneParse := opts.Timer.Track("parse " + t.Path)
		ir, ok := descriptor.Parse(fs, id, rep, opts.parseOptions())
		res.IR = ir
		if ir == nil {
			doneParse("syntax error")
			return res
		}
		doneParse(fmt.Sprintf("%d enums", len(ir.Enums)))
		for _, e := range ir.Enums {
			trace.Point(ctx, trace.ScopeEnum, "enum:"+e.Name, fmt.Sprintf("%d variants", len(e.Variants)))
		}
		if !ok || res.Bag.HasErrors() {
			return res
		}
		if len(ir.Enums) == 0 {
			res.Status = StatusEmpty
			return res
		}

		opts.progress(t.Path, StageGenerate, StatusFailed)
		doneGen := opts.Timer.Track("generate " + t.Path)
		code, err := codegen.Generate(ir, opts.genOptions())
		doneGen("")
		if err != nil {
			dc := diag.GenFailed
			if errors.Is(err, codegen.ErrFormat) {
				dc = diag.GenFormat
			}
			diag.ReportError(rep, dc, source.Span{File: id}, err.Error()).Emit()
			return res
		}
		res.Code = code

		if res.Bag.Len() == 0 && opts.Cache != nil {
			names := make([]string, len(ir.Enums))
			for i, e := range ir.Enums {
				names[i] = e.Name
			}
			if err := opts.Cache.Put(key, &CacheEntry{Path: t.Path, Enums: names, Code: code}); err != nil {
				trace.Error(ctx, "cache", err)
				diag.ReportWarning(rep, diag.IOCacheError, source.Span{File: id}, "cache write failed: "+err.Error()).Emit()
			}
		}
	}

	res.Status = finishFile(ctx, &res, rep, opts)
	return res
}

func finishFile(ctx context.Context, res *FileResult, rep diag.Reporter, opts Options) Status {
	switch {
	case opts.Mode == ModeCheck:
		// #nosec G304 -- output path derived from the descriptor path
		old, err := os.ReadFile(res.Output)
		if err == nil && bytes.Equal(old, res.Code) {
			return StatusUpToDate
		}
		msg := fmt.Sprintf("generated file %s is out of date; run errgen generate", filepath.Base(res.Output))
		if err != nil {
			msg = fmt.Sprintf("generated file %s is missing; run errgen generate", filepath.Base(res.Output))
		}
		diag.ReportWarning(rep, diag.GenStale, source.Span{File: res.FileID}, msg).Emit()
		return StatusStale
	case opts.DryRun:
		return StatusDryRun
	}

	opts.progress(res.Path, StageWrite, StatusFailed)
	changed, err := writeOutput(res.Output, res.Code)
	if err != nil {
		trace.Error(ctx, "write", err)
		diag.ReportError(rep, diag.IOWriteFileError, source.Span{File: res.FileID},
			fmt.Sprintf("cannot write %s: %v", res.Output, err)).Emit()
		return StatusFailed
	}
	if !changed {
		return StatusUnchanged
	}
	return StatusWritten
}

// writeOutput replaces path with code unless it already holds exactly code.
func writeOutput(path string, code []byte) (changed bool, err error) {
	// #nosec G304 -- output path derived from the descriptor path
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, code) {
		return false, nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".errgen-*")
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(code); err != nil {
		return false, err
	}
	if err = f.Chmod(0o644); err != nil {
		return false, err
	}
	if err = f.Close(); err != nil {
		return false, err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
