package errkit

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// Location is a captured call site.
type Location struct {
	File     string // absolute path, as reported by the runtime
	Line     int
	Function string
}

// pkgPrefix is the qualified-name prefix of this package's functions,
// e.g. "errgen/errkit.".
var pkgPrefix = reflect.TypeFor[Location]().PkgPath() + "."

const maxFrames = 16

// Capture returns the call site of the function that calls Capture, moving
// skip more frames out. Frames of this package (Context and friends) and
// compiler generated wrappers are passed over, so a variant bound through
// Context records the caller of Context.
func Capture(skip int) Location {
	pc := make([]uintptr, maxFrames)
	// runtime.Callers, Capture, the capturing function
	n := runtime.Callers(skip+3, pc)
	if n == 0 {
		return Location{}
	}
	frames := runtime.CallersFrames(pc[:n])
	for {
		fr, more := frames.Next()
		if !internalFrame(fr) {
			return Location{File: fr.File, Line: fr.Line, Function: fr.Function}
		}
		if !more {
			return Location{}
		}
	}
}

func internalFrame(fr runtime.Frame) bool {
	if fr.File == "<autogenerated>" || strings.HasSuffix(fr.Function, "-fm") {
		return true
	}
	return strings.HasPrefix(fr.Function, pkgPrefix) && !strings.HasSuffix(fr.File, "_test.go")
}

// Here returns the location of its own caller.
func Here() Location { return Capture(0) }

func (l Location) IsZero() bool { return l.File == "" && l.Line == 0 }

// String renders the location as dir/file.go:line.
func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	dir, file := filepath.Split(l.File)
	short := file
	if dir = filepath.Base(filepath.Clean(dir)); dir != "." && dir != string(filepath.Separator) {
		short = dir + "/" + file
	}
	return short + ":" + strconv.Itoa(l.Line)
}
