// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recsys/internal/data"
	"github.com/tomtom215/recsys/internal/recommend"
)

type predictOptions struct {
	Source modelSource
	UserID string
	TopK   int
}

func newPredictCommand(a *app) *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print top-k recommendations for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("user-id") {
				return errors.New("--user-id is required")
			}
			m, err := a.loadModel(cmd.Context(), opts.Source)
			if err != nil {
				return err
			}
			// Numeric IDs are parsed the same way the CSV reader parses them.
			user := data.ParseValue(opts.UserID)
			recs := recommend.Recommend(m, user, opts.TopK)
			fmt.Fprintf(cmd.OutOrStdout(), "Top %d recommendations for user %s: %s\n",
				opts.TopK, opts.UserID, formatIDs(recs))
			return nil
		},
	}

	bindSourceFlags(cmd, &opts.Source)
	cmd.Flags().StringVar(&opts.UserID, "user-id", "", "user to recommend for")
	cmd.Flags().IntVar(&opts.TopK, "top-k", 5, "number of items to recommend")
	return cmd
}
