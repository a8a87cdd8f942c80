// SPDX-License-Identifier: MIT

// Command wellctl is the operator CLI: offline scoring, model inspection and
// config scaffolding.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/wellcheck/internal/log"
	"github.com/ManuGH/wellcheck/internal/version"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "wellctl",
		Short:         "wellcheck operator CLI",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.Configure(log.Config{
				Level:   logLevel,
				Output:  cmd.ErrOrStderr(),
				Service: "wellctl",
				Version: version.Version,
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(newPredictCmd(), newInspectCmd(), newConfigCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
