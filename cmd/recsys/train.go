// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recsys/internal/config"
	"github.com/tomtom215/recsys/internal/logging"
	"github.com/tomtom215/recsys/internal/recommend"
	"github.com/tomtom215/recsys/internal/recommend/storage"
)

type trainOptions struct {
	Model     string
	ModelSpec string
	Input     string
	SavePath  string
	BaseDir   string
	Name      string
	Columns   columnFlags

	Factors    int
	Epochs     int
	LR         float64
	Seed       int64
	Shuffle    bool
	UpdateRule string
}

// hyperparameter flags mapped onto registry parameter names.
var trainParamFlags = map[string]string{
	"factors":     "factors",
	"epochs":      "epochs",
	"lr":          "lr",
	"seed":        "seed",
	"shuffle":     "shuffle",
	"update-rule": "update_rule",
}

func newTrainCommand(a *app) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a model on interaction data and save it",
		Long: `Fit a model on interaction data and save it.

With --save-path the model is written to a single file. Otherwise it is
saved as the next version of --name under --base-dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTrain(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Model, "model", "", "model variant (default: model.name)")
	f.StringVar(&opts.ModelSpec, "model-spec", "", "YAML or JSON file with {model, params}")
	f.StringVar(&opts.Input, "input", "", "interaction data path or URI (default: data.uri)")
	f.StringVar(&opts.SavePath, "save-path", "", "write the model to this file instead of the versioned store")
	f.StringVar(&opts.BaseDir, "base-dir", "", "versioned store directory (default: storage.base_dir)")
	f.StringVar(&opts.Name, "name", "", "versioned model name (default: storage.model_name)")
	bindColumnFlags(cmd, &opts.Columns)

	f.IntVar(&opts.Factors, "factors", 10, "number of latent factors")
	f.IntVar(&opts.Epochs, "epochs", 10, "number of passes over the data")
	f.Float64Var(&opts.LR, "lr", 0.01, "SGD learning rate")
	f.Int64Var(&opts.Seed, "seed", 42, "random seed")
	f.BoolVar(&opts.Shuffle, "shuffle", false, "visit records in a seeded random order each epoch")
	f.StringVar(&opts.UpdateRule, "update-rule", "symmetric", "symmetric or sequential factor updates")

	return cmd
}

func (a *app) runTrain(cmd *cobra.Command, opts *trainOptions) error {
	ctx := cmd.Context()
	a.applyColumns(opts.Columns)

	spec, err := a.trainSpec(cmd, opts)
	if err != nil {
		return err
	}
	m, err := a.registry.FromSpec(spec)
	if err != nil {
		return err
	}

	frame, err := a.loadFrame(ctx, opts.Input)
	if err != nil {
		return err
	}
	if _, err := recommend.Train(ctx, m, frame); err != nil {
		return fmt.Errorf("train %s: %w", m.Name(), err)
	}

	if opts.SavePath != "" {
		if err := storage.SaveFile(m, opts.SavePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Model saved to %s\n", opts.SavePath)
		return nil
	}

	store, err := a.storeFor(opts.BaseDir)
	if err != nil {
		return err
	}
	name, err := a.modelName(opts.Name)
	if err != nil {
		return err
	}
	version, err := store.Save(ctx, m, name, nil)
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().
		Str("name", name).
		Int("version", version).
		Str("base_dir", store.BaseDir()).
		Msg("model version saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Model %s saved as version %d\n", name, version)
	return nil
}

// trainSpec layers the model selection: config, then --model-spec, then
// --model and hyperparameter flags. Column names come from the data config
// for every column parameter the variant declares.
func (a *app) trainSpec(cmd *cobra.Command, opts *trainOptions) (recommend.ModelSpec, error) {
	spec := a.cfg.Model.Spec()
	if opts.ModelSpec != "" {
		loaded, err := config.LoadModelSpec(opts.ModelSpec)
		if err != nil {
			return recommend.ModelSpec{}, err
		}
		spec = loaded
	}
	if opts.Model != "" && opts.Model != spec.Model {
		// Parameters configured for another variant do not carry over.
		spec = recommend.ModelSpec{Model: opts.Model}
	}

	entry, err := a.registry.Get(spec.Model)
	if err != nil {
		return recommend.ModelSpec{}, err
	}

	params := spec.Params.Clone()
	columns := map[string]string{
		"user_col":   a.cfg.Data.UserCol,
		"item_col":   a.cfg.Data.ItemCol,
		"rating_col": a.cfg.Data.RatingCol,
	}
	for name, col := range columns {
		if _, declared := entry.Params.Lookup(name); !declared {
			continue
		}
		if _, set := params[name]; !set {
			params[name] = col
		}
	}

	values := map[string]any{
		"factors":     opts.Factors,
		"epochs":      opts.Epochs,
		"lr":          opts.LR,
		"seed":        opts.Seed,
		"shuffle":     opts.Shuffle,
		"update-rule": opts.UpdateRule,
	}
	for flag, param := range trainParamFlags {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		if _, declared := entry.Params.Lookup(param); !declared {
			return recommend.ModelSpec{}, fmt.Errorf("%w: --%s is not supported by model %q",
				recommend.ErrInvalidParameter, flag, spec.Model)
		}
		params[param] = values[flag]
	}

	spec.Params = params
	return spec, nil
}
