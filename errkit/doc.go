// Package errkit is the runtime vocabulary of errgen generated code.
//
// Generated error types implement Provider and wrap their cause through
// Unwrap. Call sites bind failures to error variants with Context:
//
//	f, err := os.Open(path)
//	if err := errkit.Context(err, cache.Open{File: path}); err != nil {
//		return err
//	}
//
// Help text attached to any error of a chain is retrieved with
// RequestValue[Help].
package errkit
