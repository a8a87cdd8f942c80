// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/version"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var out string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}
			if err := renameio.WriteFile(out, []byte(config.ExampleYAML), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "config.yaml", "destination path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load a config file with environment overrides and validate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader(file, version.Version).Load()
			if err != nil {
				return fmt.Errorf("configuration error in %s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration valid (listen %s, model %s, history %s)\n",
				cfg.Server.ListenAddr, cfg.Model.Path, cfg.History.Backend)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "config.yaml", "path to YAML configuration file")
	return cmd
}
