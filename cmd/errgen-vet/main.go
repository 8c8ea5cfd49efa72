// Command errgen-vet runs the errgen analyzer standalone or as a vet tool:
//
//	go vet -vettool=$(which errgen-vet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"errgen/internal/analyzer"
)

func main() { singlechecker.Main(analyzer.Analyzer) }
