package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"errgen/internal/version"
)

type versionPayload struct {
	Tool        string `json:"tool"`
	Version     string `json:"version"`
	GitCommit   string `json:"git_commit,omitempty"`
	BuildDate   string `json:"build_date,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show errgen build fingerprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload := versionPayload{
				Tool:        "errgen",
				Version:     strings.TrimSpace(version.Version),
				Fingerprint: version.Fingerprint(),
			}
			if full {
				payload.GitCommit = valueOrUnknown(version.Commit())
				payload.BuildDate = valueOrUnknown(strings.TrimSpace(version.BuildDate))
			}
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), payload, full)
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func renderVersionPretty(out io.Writer, p versionPayload, full bool) {
	fmt.Fprintf(out, "errgen %s\n", version.Pretty())
	if full {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
		fmt.Fprintf(out, "cache:  %s\n", p.Fingerprint)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
