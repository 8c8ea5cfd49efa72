package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"errgen/internal/diagfmt"
	"errgen/internal/driver"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [flags] <file.go>",
		Short: "Print the parsed descriptor as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd, args)
			if err != nil {
				return err
			}
			res := driver.Dump(args[0], s.opts)
			if res.Bag.Len() > 0 {
				res.Bag.Sort()
				if err := diagfmt.Write(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.Options{
					Format:  s.format,
					Color:   !colorDisabled(),
					Context: 1,
				}); err != nil {
					return err
				}
			}
			if res.IR != nil {
				data, err := res.JSON()
				if err != nil {
					return fmt.Errorf("encode IR: %w", err)
				}
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			}
			if res.Bag.HasErrors() {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("type", nil, "treat the named struct types as enumerations (repeatable)")
	cmd.Flags().Bool("lenient", false, "accept {} and lone } in templates as literal text")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	return cmd
}
