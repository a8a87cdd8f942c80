// SPDX-License-Identifier: MIT

package main

import (
	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate a model bundle and print its metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := model.Load(modelPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), b.Info())
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", config.DefaultModelPath, "path to the model bundle")
	return cmd
}
