package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/dspline"
)

func newFitCmd(opts *options) *cobra.Command {
	var samples []int

	var plotPath string

	cmd := &cobra.Command{
		Use:     "fit",
		Short:   "Fit the d-spline to selected indexes of the input table and print the suggestion",
		Example: `  dspline fit -i times.txt --samples 0,2,4,5`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValuesFile(opts.input)
			if err != nil {
				return err
			}

			engine, err := dspline.New(len(values), opts.alpha)
			if err != nil {
				return err
			}

			for _, index := range samples {
				if index < 0 || index >= len(values) {
					return fmt.Errorf("%w: sample %d, table has %d values", dspline.ErrIndexOutOfRange, index, len(values))
				}

				if _, err := engine.Add(index, values[index]); err != nil {
					return err
				}
			}

			if err := engine.Update(); err != nil {
				return err
			}

			if err := printFit(cmd.OutOrStdout(), engine); err != nil {
				return err
			}

			if plotPath != "" {
				return renderPlot(plotPath, values, engine)
			}

			return nil
		},
	}

	cmd.Flags().IntSliceVar(&samples, "samples", nil, "Indexes to sample from the table")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write a PNG of the fit to this path")

	_ = cmd.MarkFlagRequired("samples")

	return cmd
}

func printFit(out io.Writer, engine *dspline.Engine) error {
	fmt.Fprintf(out, "samples: %d (%s)\n", engine.SampleCount(), engine.State())

	markers, err := engine.Markers()
	if errors.Is(err, dspline.ErrNotFitted) {
		fmt.Fprintf(out, "not fitted: at least %d distinct samples are required\n", dspline.MinSamples)

		return nil
	}

	if err != nil {
		return err
	}

	curvature, err := engine.Curvature()
	if err != nil {
		return err
	}

	minIndex, err := engine.MinIndex()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "markers:   %s\n", formatFloats(markers))
	fmt.Fprintf(out, "curvature: %s\n", formatFloats(curvature))
	fmt.Fprintf(out, "min: %d\n", minIndex)

	next, err := engine.NextIndex()

	switch {
	case errors.Is(err, dspline.ErrExhausted):
		fmt.Fprintln(out, "next: exhausted")
	case err != nil:
		return err
	default:
		fmt.Fprintf(out, "next: %d (%s)\n", next, engine.Mode())
	}

	return nil
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.4g", v)
	}

	return strings.Join(parts, " ")
}
