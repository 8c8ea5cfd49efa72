package errkit

import (
	"iter"
	"reflect"
)

// Cause returns src as an error, or nil when src is nil or a typed nil
// pointer. Generated Unwrap methods use it for concrete cause types.
func Cause[E error](src E) error {
	if isNil(src) {
		return nil
	}
	return src
}

func isNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// maxChain bounds Chain on cyclic wrappers.
const maxChain = 1 << 10

// Chain yields err and then every error it wraps, depth first. Errors that
// wrap several errors (errors.Join) yield their children in order.
func Chain(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		if isNil(err) {
			return
		}
		stack := []error{err}
		for n := 0; len(stack) > 0 && n < maxChain; n++ {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			switch u := cur.(type) {
			case interface{ Unwrap() error }:
				if next := u.Unwrap(); !isNil(next) {
					stack = append(stack, next)
				}
			case interface{ Unwrap() []error }:
				children := u.Unwrap()
				for i := len(children) - 1; i >= 0; i-- {
					if !isNil(children[i]) {
						stack = append(stack, children[i])
					}
				}
			}
		}
	}
}
