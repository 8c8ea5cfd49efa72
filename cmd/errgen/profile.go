package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"errgen/internal/prof"
)

// setupProfiling starts the profiles requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for name, dst := range map[string]*string{
		"cpu-profile":   &cfg.CPU,
		"mem-profile":   &cfg.Mem,
		"runtime-trace": &cfg.Trace,
	} {
		v, err := pf.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	return func() {
		if err := s.Stop(); err != nil {
			fmt.Fprintf(errOut, "errgen: profiling: %v\n", err)
		}
	}, nil
}
