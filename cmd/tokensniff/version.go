package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tokensniff/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
}

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

var (
	versionFormat   string
	versionShowHash bool
	versionShowDate bool
	versionShowFull bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionShowFull, "full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tokensniff build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := versionOptions{
			format:   strings.ToLower(versionFormat),
			showHash: versionShowHash || versionShowFull,
			showDate: versionShowDate || versionShowFull,
		}
		info := version.Current()
		switch opts.format {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), info, opts)
		case "pretty":
			colored, err := useColor(cmd, os.Stdout)
			if err != nil {
				return usageError(err)
			}
			renderVersionPretty(cmd.OutOrStdout(), info, opts, colored)
			return nil
		default:
			return usageError(fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat))
		}
	},
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions, colored bool) {
	v := info.Version
	if colored {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "tokensniff %s\n", v)
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
	if versionShowFull {
		fmt.Fprintf(out, "go:     %s\n", valueOrUnknown(info.GoVersion))
	}
}

func renderVersionJSON(out io.Writer, info version.Info, opts versionOptions) error {
	if !opts.showHash {
		info.GitCommit = ""
	}
	if !opts.showDate {
		info.BuildDate = ""
	}
	return writeJSON(out, versionPayload{Tool: "tokensniff", Info: info})
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
