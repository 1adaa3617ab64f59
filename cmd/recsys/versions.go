// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type versionsOptions struct {
	BaseDir string
	Name    string
	Keep    int
}

func newVersionsCommand(a *app) *cobra.Command {
	opts := &versionsOptions{}

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List saved versions of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.storeFor(opts.BaseDir)
			if err != nil {
				return err
			}
			name, err := a.modelName(opts.Name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if opts.Keep > 0 {
				removed, err := store.Prune(ctx, name, opts.Keep)
				if err != nil {
					return err
				}
				if len(removed) > 0 {
					fmt.Fprintf(out, "Pruned versions: %v\n", removed)
				}
			}

			versions, err := store.Versions(name)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintf(out, "No versions of %s in %s\n", name, store.BaseDir())
				return nil
			}
			for _, v := range versions {
				meta, err := store.Metadata(name, v)
				if err != nil {
					fmt.Fprintf(out, "v%d\t(metadata unavailable: %v)\n", v, err)
					continue
				}
				fmt.Fprintf(out, "v%d\t%s\t%s\t%d bytes\trun %s\n",
					v, meta.Timestamp.Format(time.RFC3339), meta.Algorithm, meta.SizeBytes, meta.RunID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.BaseDir, "base-dir", "", "versioned store directory (default: storage.base_dir)")
	f.StringVar(&opts.Name, "name", "", "model name (default: storage.model_name)")
	f.IntVar(&opts.Keep, "keep", 0, "delete all but the newest N versions before listing")
	return cmd
}
