// Package descriptor parses errgen descriptor files into the IR consumed by
// internal/codegen.
//
// A descriptor is an ordinary Go file hidden from normal builds:
//
//	//go:build errgen
//
//	package cache
//
//	//errgen:enum
//	//errgen:top_level
//	type CacheError struct {
//		//errgen:error "cannot open {file}: {source}"
//		//errgen:help "check that {file} is readable"
//		Open struct {
//			file     string
//			source   error           `errgen:"source"`
//			location errkit.Location `errgen:"location"`
//		}
//		//errgen:error "cache is closed"
//		Closed struct{}
//	}
//
// Each field of the enumeration struct is a variant; the variant's own
// struct lists its fields. Parse reports violations through a diag.Reporter
// and drops the enumeration containing them.
package descriptor
