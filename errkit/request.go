package errkit

import (
	"fmt"
	"reflect"
)

// Request asks an error for one value of a given type. Providers answer it
// with ProvideValue or ProvideValueWith.
type Request struct {
	want  reflect.Type
	value any
	done  bool
}

// Provider is implemented by errors that expose auxiliary data.
type Provider interface {
	Provide(r *Request)
}

func newRequest[T any]() *Request {
	return &Request{want: reflect.TypeFor[T]()}
}

// Wants reports whether r is still open and asks for a T.
func Wants[T any](r *Request) bool {
	if r == nil || r.done {
		return false
	}
	return r.want == reflect.TypeFor[T]()
}

// ProvideValue answers r with v when r asks for a T.
func ProvideValue[T any](r *Request, v T) {
	if Wants[T](r) {
		r.value, r.done = v, true
	}
}

// ProvideValueWith answers r with fn() when r asks for a T; fn is not called
// otherwise.
func ProvideValueWith[T any](r *Request, fn func() T) {
	if Wants[T](r) {
		r.value, r.done = fn(), true
	}
}

// RequestValue asks err, and only err, for a T.
func RequestValue[T any](err error) (T, bool) {
	var zero T
	p, ok := err.(Provider)
	if !ok || isNil(err) {
		return zero, false
	}
	r := newRequest[T]()
	p.Provide(r)
	if !r.done {
		return zero, false
	}
	v, ok := r.value.(T)
	return v, ok
}

// Help is auxiliary text attached to an error, one "Help: ..." line per
// entry.
type Help struct {
	msg string
}

func NewHelp(msg string) Help { return Help{msg: msg} }

func (h Help) String() string { return h.msg }

// Format writes the help text for %v and %s.
func (h Help) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(h.msg))
}

// Helps collects the Help of every error in err's chain.
func Helps(err error) []Help {
	var out []Help
	for e := range Chain(err) {
		if h, ok := RequestValue[Help](e); ok {
			out = append(out, h)
		}
	}
	return out
}
