package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"errgen/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the generation cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir(cmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove every cached entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir(cmd)
				if err != nil {
					return err
				}
				cache, err := driver.OpenDiskCache(dir)
				if err != nil {
					return err
				}
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("failed to clear %s: %w", dir, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dir)
				return nil
			},
		},
	)
	return cmd
}

func cacheDir(cmd *cobra.Command) (string, error) {
	s, err := loadSettings(cmd, nil)
	if err != nil {
		return "", err
	}
	if s.config.Cache.Dir != "" {
		return s.config.Cache.Dir, nil
	}
	return driver.DefaultCacheDir()
}
