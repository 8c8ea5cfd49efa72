package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"errgen/internal/diagfmt"
	"errgen/internal/driver"
	"errgen/internal/fmtstr"
	"errgen/internal/observ"
	"errgen/internal/project"
)

// settings is the merged view of defaults, errgen.toml and flags.
type settings struct {
	config     project.Config
	configPath string // empty when no errgen.toml was found
	opts       driver.Options
	format     diagfmt.Format
	quiet      bool
	timings    bool
}

// loadSettings discovers the configuration from the first argument and
// applies the flags of cmd on top. Flags that cmd does not define are left
// to the file.
func loadSettings(cmd *cobra.Command, args []string) (*settings, error) {
	pf := cmd.Root().PersistentFlags()
	explicit, err := pf.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	start := "."
	if len(args) > 0 {
		start = strings.TrimSuffix(args[0], "...")
		if start == "" {
			start = "."
		}
	}
	cfg, path, err := project.LoadOrDiscover(explicit, start)
	if err != nil {
		return nil, err
	}
	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s := &settings{config: cfg, configPath: path, opts: opts}

	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.timings {
		s.opts.Timer = observ.NewTimer()
	}
	maxDiag, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiag > 0 {
		s.opts.MaxDiagnostics = maxDiag
	}

	flags := cmd.Flags()
	format := cfg.Diagnostics.Format
	if flags.Lookup("format") != nil && flags.Changed("format") {
		format, _ = flags.GetString("format")
	}
	if s.format, err = diagfmt.ParseFormat(format); err != nil {
		return nil, err
	}
	if flags.Lookup("type") != nil {
		if s.opts.Types, err = flags.GetStringSlice("type"); err != nil {
			return nil, fmt.Errorf("failed to get type flag: %w", err)
		}
	}
	if flags.Lookup("lenient") != nil {
		lenient, err := flags.GetBool("lenient")
		if err != nil {
			return nil, fmt.Errorf("failed to get lenient flag: %w", err)
		}
		if lenient {
			s.opts.Policy = fmtstr.PolicyLenient
		}
	}
	if flags.Lookup("jobs") != nil {
		if s.opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	return s, nil
}

// openCache opens the disk cache unless disabled by errgen.toml or --no-cache.
func (s *settings) openCache(cmd *cobra.Command) {
	if !s.config.Cache.Enabled {
		return
	}
	if noCache, err := cmd.Flags().GetBool("no-cache"); err == nil && noCache {
		return
	}
	cache, err := driver.OpenDiskCache(s.config.Cache.Dir)
	if err != nil {
		// кеш - оптимизация, без него генерация работает
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "errgen: cache disabled: %v\n", err)
		}
		return
	}
	s.opts.Cache = cache
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if s.configPath != "" {
				rel := s.configPath
				if wd, err := os.Getwd(); err == nil {
					if r, err := filepath.Rel(wd, s.configPath); err == nil {
						rel = r
					}
				}
				fmt.Fprintf(out, "# %s\n", rel)
			} else {
				fmt.Fprintln(out, "# defaults (no errgen.toml found)")
			}
			return s.config.Encode(out)
		},
	}
}
