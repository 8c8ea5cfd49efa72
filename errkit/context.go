package errkit

import "errors"

// With converts the error of a failed operation into a domain error.
// Selectors of variants without a cause and with an error-typed cause
// implement it.
type With interface {
	Bind(err error) error
}

// Missing converts an absent value into a domain error.
type Missing interface {
	BindMissing() error
}

// Context returns nil when err is nil (or a typed nil), and w.Bind(err)
// otherwise.
func Context(err error, w With) error {
	if isNil(err) {
		return nil
	}
	return w.Bind(err)
}

// WithContext is Context with a binder built only on failure.
func WithContext(err error, fn func() With) error {
	if isNil(err) {
		return nil
	}
	return fn().Bind(err)
}

// ContextAs binds err to a variant whose cause has the concrete type E, as
// found by errors.As along err's chain. When no E is found err is returned
// unchanged.
func ContextAs[E error](err error, bind func(E) error) error {
	if isNil(err) {
		return nil
	}
	var src E
	if errors.As(err, &src) {
		return bind(src)
	}
	return err
}

// ContextOK returns nil when ok, and m.BindMissing() otherwise.
func ContextOK(ok bool, m Missing) error {
	if ok {
		return nil
	}
	return m.BindMissing()
}

// Value is ContextOK for the common value, ok pair.
func Value[T any](v T, ok bool, m Missing) (T, error) {
	if ok {
		return v, nil
	}
	var zero T
	return zero, m.BindMissing()
}
