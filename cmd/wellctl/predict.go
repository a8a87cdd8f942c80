// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/ManuGH/wellcheck/internal/assessment"
	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/model"
	"github.com/spf13/cobra"
)

type bundleSource struct{ b *model.Bundle }

func (s bundleSource) Current() *model.Bundle { return s.b }

func newPredictCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "predict [features...]",
		Short: "Score a feature vector offline",
		Long: `Scores a questionnaire feature vector with a model bundle, without a
running daemon. Values may be given as separate arguments or as one
comma-separated list; "null" or an empty value marks a missing answer.

Example:
  wellctl predict --model model.json 3,2,null,1,0,4,2,2,3,1,0,0,2,3,1,2,4,0,1,2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := model.Load(modelPath)
			if err != nil {
				return err
			}
			features, err := assessment.ParseFeatures(splitFeatures(args))
			if err != nil {
				return err
			}
			res, err := assessment.NewService(bundleSource{b}, nil, "").Assess(cmd.Context(), features)
			if err != nil {
				return fmt.Errorf("assess: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&modelPath, "model", "m", config.DefaultModelPath, "path to the model bundle")
	return cmd
}

// splitFeatures flattens arguments and comma lists into decoded values.
func splitFeatures(args []string) []any {
	var out []any
	for _, arg := range args {
		for _, tok := range strings.Split(arg, ",") {
			tok = strings.TrimSpace(tok)
			switch strings.ToLower(tok) {
			case "", "null", "none", "nan":
				out = append(out, nil)
			default:
				out = append(out, tok)
			}
		}
	}
	return out
}
