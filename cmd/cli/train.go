package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"energyexplain/domain/model"
	"energyexplain/internal/predictor"

	"github.com/spf13/cobra"
)

type trainFlags struct {
	target       string
	testFraction float64
	seed         int64
}

func (f *trainFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "Target column: price or consumption (default from TRAIN_TARGET)")
	cmd.Flags().Float64Var(&f.testFraction, "test-fraction", 0, "Held-out share in (0,1) (default from TEST_FRACTION)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Split seed (default from RANDOM_SEED)")
}

func (f *trainFlags) options(cmd *cobra.Command, defaults predictor.Options) (predictor.Options, error) {
	opts := defaults
	if f.target != "" {
		t, ok := model.ParseTarget(f.target)
		if !ok {
			return opts, fmt.Errorf("unknown target %q", f.target)
		}
		opts.Target = t
	}
	if cmd.Flags().Changed("test-fraction") {
		opts.TestFraction = f.testFraction
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	return opts, nil
}

type trainOutput struct {
	model.Summary
	Predictions []model.Prediction `json:"predictions,omitempty"`
}

func newTrainCmd() *cobra.Command {
	var flags trainFlags
	var top int
	var asJSON bool
	var predictPath string

	cmd := &cobra.Command{
		Use:   "train [file]",
		Short: "Train a model on a CSV/XLSX dataset and print metrics and feature importance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}
			records, err := readRecords(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, c.Sessions.DefaultOptions())
			if err != nil {
				return err
			}
			p := predictor.New(c.Engineer, c.Config.Pipeline.Training, c.Logger.With("predictor"))
			if _, err := p.Train(records, opts.Target, opts.TestFraction, opts.Seed); err != nil {
				return err
			}

			out := trainOutput{}
			if out.Summary, err = p.ModelSummary(); err != nil {
				return err
			}
			if predictPath != "" {
				next, err := readRecords(cmd.Context(), c, predictPath)
				if err != nil {
					return err
				}
				if out.Predictions, err = p.Predict(next); err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			if err := printSummary(cmd, out.Summary, top); err != nil {
				return err
			}
			if predictPath != "" {
				return printPredictions(cmd, out.Predictions)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&top, "top", 10, "Number of features to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full model summary as JSON")
	cmd.Flags().StringVar(&predictPath, "predict", "", "Apply the trained model to another CSV/XLSX dataset")
	return cmd
}

func printPredictions(cmd *cobra.Command, preds []model.Prediction) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d predictions\n", len(preds))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tACTUAL\tPREDICTED")
	for _, pr := range preds {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", pr.Timestamp.Format("2006-01-02T15:04:05Z07:00"), pr.Actual, pr.Predicted)
	}
	return tw.Flush()
}

func printSummary(cmd *cobra.Command, s model.Summary, top int) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Target: %s (%d features, %d train / %d test rows)\n\n", s.Target, s.NumFeatures, s.NumTrain, s.NumTest)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTITION\tMAE\tRMSE\tR2")
	fmt.Fprintf(tw, "train\t%.4f\t%.4f\t%.4f\n", s.Metrics.Train.MAE, s.Metrics.Train.RMSE, s.Metrics.Train.R2)
	fmt.Fprintf(tw, "test\t%.4f\t%.4f\t%.4f\n", s.Metrics.Test.MAE, s.Metrics.Test.RMSE, s.Metrics.Test.R2)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tCOEFFICIENT")
	for i, imp := range s.Importance {
		if i >= top {
			break
		}
		fmt.Fprintf(tw, "%s\t%+.6f\n", imp.Feature, imp.Coefficient)
	}
	return tw.Flush()
}
