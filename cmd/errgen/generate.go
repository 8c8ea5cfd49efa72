package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"errgen/internal/diag"
	"errgen/internal/diagfmt"
	"errgen/internal/driver"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <file.go|dir|dir/...>...",
		Short: "Write generated code next to each descriptor",
		Long: `Generate parses every descriptor and writes <name>_errgen.go next to it.
A directory is scanned for files carrying //errgen:enum; dir/... also scans
subdirectories. Intended for //go:generate go run errgen/cmd/errgen generate $GOFILE.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, driver.ModeGenerate)
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "print generated code instead of writing it")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.go|dir|dir/...>...",
		Short: "Report diagnostics without writing files",
		Long:  `Check runs the full pipeline and also warns about generated files that are missing or out of date.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, driver.ModeCheck)
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("type", nil, "treat the named struct types as enumerations (repeatable)")
	f.Bool("lenient", false, "accept {} and lone } in templates as literal text")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.String("format", "pretty", "diagnostics format (pretty|json|short)")
	f.Bool("no-cache", false, "bypass the generation cache")
}

func runPipeline(cmd *cobra.Command, args []string, mode driver.Mode) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	s.openCache(cmd)
	s.opts.Mode = mode
	if mode == driver.ModeGenerate {
		if s.opts.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
			return fmt.Errorf("failed to get dry-run flag: %w", err)
		}
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	ui, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doneCollect := s.opts.Timer.Track("collect")
	targets, err := driver.Collect(ctx, args, s.opts)
	doneCollect(fmt.Sprintf("%d files", len(targets)))
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		if !s.quiet {
			fmt.Fprintln(cmd.ErrOrStderr(), "errgen: no descriptor files found")
		}
		return nil
	}

	var res *driver.Result
	// JSON-вывод и dry-run пишут в stdout, прогресс там не нужен
	if shouldUseTUI(ui, len(targets)) && !s.opts.DryRun && s.format != diagfmt.FormatJSON {
		res, err = runWithUI(ctx, cmd.OutOrStdout(), mode.String(), targets, s.opts)
	} else {
		res, err = driver.Run(ctx, targets, s.opts)
	}
	if err != nil {
		dumpTraceRing(cmd)
		return err
	}

	if s.opts.DryRun {
		writeDryRun(cmd.OutOrStdout(), res)
	}
	bag := res.Bag()
	if err := writeDiagnostics(cmd, bag, res, s); err != nil {
		return err
	}
	if !s.quiet && s.format != diagfmt.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), summary(res, mode, s.opts.DryRun))
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), s.opts.Timer.Summary())
	}
	if bag.HasErrors() {
		dumpTraceRing(cmd)
		return errReported
	}
	return nil
}

func writeDiagnostics(cmd *cobra.Command, bag *diag.Bag, res *driver.Result, s *settings) error {
	if bag.Len() == 0 && s.format != diagfmt.FormatJSON {
		return nil
	}
	out := cmd.ErrOrStderr()
	if s.format == diagfmt.FormatJSON {
		out = cmd.OutOrStdout()
	}
	return diagfmt.Write(out, bag, res.FileSet, diagfmt.Options{
		Format:  s.format,
		Color:   !colorDisabled(),
		Context: 1,
	})
}

func writeDryRun(out io.Writer, res *driver.Result) {
	many := len(res.Files) > 1
	for _, f := range res.Files {
		if len(f.Code) == 0 {
			continue
		}
		if many {
			fmt.Fprintf(out, "// ==> %s <==\n", f.Output)
		}
		_, _ = out.Write(f.Code)
	}
}

// summary: "errgen generate: 2 written, 1 unchanged, 1 failed (1 cached)"
func summary(res *driver.Result, mode driver.Mode, dryRun bool) string {
	order := []driver.Status{
		driver.StatusWritten, driver.StatusUnchanged, driver.StatusDryRun,
		driver.StatusUpToDate, driver.StatusStale, driver.StatusEmpty, driver.StatusFailed,
	}
	var parts []string
	for _, st := range order {
		if n := res.Count(st); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	cached := 0
	for _, f := range res.Files {
		if f.Cached {
			cached++
		}
	}
	line := fmt.Sprintf("errgen %s: %s", mode, strings.Join(parts, ", "))
	if dryRun {
		line += " (dry run)"
	}
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	return line
}
