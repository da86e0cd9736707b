package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thalesfsp/dspline"
)

type searchOptions struct {
	initial   []int
	repeats   int
	maxEvals  int
	plotPath  string
	showSteps bool
}

func newSearchCmd(opts *options) *cobra.Command {
	sopts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the input table for its minimum, one suggested index at a time",
		Example: `  dspline search -i times.txt
  dspline search -i times.txt --init 0,5,10,15 --repeats 4 --plot fit.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, sopts)
		},
	}

	cmd.Flags().IntSliceVar(&sopts.initial, "init", nil, "Initial indexes (default: four evenly spread indexes)")
	cmd.Flags().IntVar(&sopts.repeats, "repeats", dspline.DefaultMaxRepeats, "Stop once the fitted minimum repeats this many times")
	cmd.Flags().IntVar(&sopts.maxEvals, "max-evals", 0, "Evaluation budget, 0 for unlimited")
	cmd.Flags().StringVar(&sopts.plotPath, "plot", "", "Write a PNG of the final fit to this path")
	cmd.Flags().BoolVar(&sopts.showSteps, "steps", true, "Print every evaluation")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *options, sopts *searchOptions) error {
	values, err := readValuesFile(opts.input)
	if err != nil {
		return err
	}

	config, err := loadSearchConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Explicit flags win over the config file.
	flags := cmd.Flags()
	if flags.Changed("alpha") {
		config.Alpha = opts.alpha
	}

	if flags.Changed("init") {
		config.InitialIndexes = sopts.initial
	}

	if flags.Changed("repeats") {
		config.MaxRepeats = sopts.repeats
	}

	if flags.Changed("max-evals") {
		config.MaxEvaluations = sopts.maxEvals
	}

	// Every evaluation samples a new index, so len(values) never drops an
	// update.
	progressChan := make(chan dspline.ProgressUpdate, len(values))
	config.ProgressChan = progressChan
	config.Logger = newLogger(cmd, opts.verbose)

	result, err := dspline.Search(cmd.Context(), config, len(values), func(index int) (float64, error) {
		return values[index], nil
	})

	close(progressChan)

	out := cmd.OutOrStdout()

	if sopts.showSteps {
		fmt.Fprintf(out, "%5s %-16s %6s %12s %6s %9s\n", "eval", "phase", "index", "value", "min", "min count")

		for update := range progressChan {
			fmt.Fprintf(out, "%5d %-16s %6d %12.6g %6d %9d\n",
				update.Evaluations, update.Phase, update.Index, update.Value, update.MinIndex, update.MinRepeatCount)
		}
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "stopped: %s after %d of %d evaluations\n", result.Reason, result.Evaluations, len(values))
	fmt.Fprintf(out, "best measured: index %d, value %g\n", result.BestIndex, result.BestValue)
	fmt.Fprintf(out, "fitted minimum: index %d\n", result.MinIndex)

	if actual := argminIndex(values); actual == result.BestIndex {
		fmt.Fprintln(out, "true minimum found")
	} else {
		fmt.Fprintf(out, "true minimum: index %d, value %g\n", actual, values[actual])
	}

	if sopts.plotPath == "" {
		return nil
	}

	engine, err := replay(len(values), config.Alpha, result.Indices, result.Values)
	if err != nil {
		return err
	}

	if err := renderPlot(sopts.plotPath, values, engine); err != nil {
		return fmt.Errorf("plot: %w", err)
	}

	fmt.Fprintf(out, "plot written to %s\n", sopts.plotPath)

	return nil
}

// replay rebuilds the engine a search ended with.
func replay(n int, alpha float64, indices []int, values []float64) (*dspline.Engine, error) {
	engine, err := dspline.New(n, alpha)
	if err != nil {
		return nil, err
	}

	if _, err := engine.AddMany(indices, values); err != nil {
		return nil, err
	}

	if err := engine.Update(); err != nil {
		return nil, err
	}

	return engine, nil
}

func argminIndex(values []float64) int {
	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}

	return best
}
