// Package fuzztests houses Go fuzz harnesses for the descriptor pipeline
// (template compiler -> descriptor parser -> code generator). They guard
// against panics and broken span invariants on arbitrary input.
//
// Не делает: запись файлов, выполнение CLI.
package fuzztests
