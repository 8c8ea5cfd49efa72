package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"errgen/internal/driver"
	"errgen/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] <file.go|dir|dir/...>...",
		Short: "Apply suggested fixes to descriptor files",
		Long: `Fix runs the checks and applies the edits suggested by diagnostics, such as
adding the missing build constraint or renaming a cause field to source.
Without --all only the first fix is applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return fmt.Errorf("failed to get all flag: %w", err)
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("failed to get dry-run flag: %w", err)
			}
			s.opts.Mode = driver.ModeCheck

			targets, err := driver.Collect(cmd.Context(), args, s.opts)
			if err != nil {
				return err
			}
			res, err := driver.Run(cmd.Context(), targets, s.opts)
			if err != nil {
				return err
			}

			opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: dryRun}
			if all {
				opts.Mode = fix.ApplyModeAll
			}
			applied, err := fix.Apply(res.FileSet, res.Bag().Items(), opts)
			if errors.Is(err, fix.ErrNoFixes) {
				if !s.quiet {
					fmt.Fprintln(cmd.ErrOrStderr(), "errgen fix: nothing to fix")
				}
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.ErrOrStderr()
			for _, a := range applied.Applied {
				fmt.Fprintf(out, "fixed %s: %s [%s]\n", a.Path, a.Title, a.Code.ID())
			}
			for _, sk := range applied.Skipped {
				fmt.Fprintf(out, "skipped %s: %s (%s)\n", sk.Path, sk.Title, sk.Reason)
			}
			if dryRun {
				many := len(applied.FileChanges) > 1
				for _, ch := range applied.FileChanges {
					if many {
						fmt.Fprintf(cmd.OutOrStdout(), "// ==> %s <==\n", ch.Path)
					}
					_, _ = cmd.OutOrStdout().Write(ch.Content)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	cmd.Flags().Bool("dry-run", false, "print fixed files instead of writing them")
	cmd.Flags().StringSlice("type", nil, "treat the named struct types as enumerations (repeatable)")
	cmd.Flags().Bool("lenient", false, "accept {} and lone } in templates as literal text")
	return cmd
}
