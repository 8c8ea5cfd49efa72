// Package fmtstr compiles errgen message templates.
//
// A template is plain text with brace placeholders:
//
//	"cannot open {file}: {source}"
//	"value {{escaped}} but got {x:q}"
//
// Compile strips argument names out of placeholders, leaving {} or {:spec}
// in Template.Output, and records every name with its byte offset in the
// original literal so diagnostics can point at it. Doubled braces are
// escapes and consume no argument. Lower then turns the output into a
// format string for package fmt.
package fmtstr
