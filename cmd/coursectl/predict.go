package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/coursecast/internal/advisor"
	"github.com/JaimeStill/coursecast/internal/infrastructure"
	"github.com/JaimeStill/coursecast/internal/predictions"
)

type predictOptions struct {
	cmd      predictions.Command
	noAdvice bool
	json     bool

	instrTotalReviews int
	instrMeanRating   float64
	instrCourseCount  int
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a course and print advice",
		Long: `Score a course with the fitted model and print the outcome, the
engineered features, and improvement advice. Nothing is written to the
prediction history.`,
		Example: `  $ coursectl predict --category Design --difficulty Intermediate \
      --price 1500 --reviews 40 --rating 4.1 --duration 12 --lectures 60

  # Skip the language model and emit JSON
  $ coursectl predict --category Tech --difficulty Beginner --no-advice --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cmd.Title, "title", "", "Course title")
	f.StringVar(&opts.cmd.Category, "category", "", "Course category")
	f.StringVar(&opts.cmd.Difficulty, "difficulty", "", "Course difficulty")
	f.Float64Var(&opts.cmd.Price, "price", 0, "Course price")
	f.IntVar(&opts.cmd.Reviews, "reviews", 0, "Number of reviews")
	f.Float64Var(&opts.cmd.Rating, "rating", 0, "Average rating (0-5)")
	f.Float64Var(&opts.cmd.Duration, "duration", 0, "Total duration in hours")
	f.IntVar(&opts.cmd.LectureNumbers, "lectures", 0, "Number of lectures")
	f.IntVar(&opts.instrTotalReviews, "instr-total-reviews", 0, "Instructor total reviews (defaults to --reviews)")
	f.Float64Var(&opts.instrMeanRating, "instr-mean-rating", 0, "Instructor mean rating (defaults to --rating)")
	f.IntVar(&opts.instrCourseCount, "instr-course-count", 0, "Instructor course count (defaults to 1)")
	f.BoolVar(&opts.noAdvice, "no-advice", false, "Use the static advice instead of the language model")
	f.BoolVar(&opts.json, "json", false, "Print the result as JSON")

	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("difficulty")

	return cmd
}

func runPredict(cmd *cobra.Command, root *rootOptions, opts *predictOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	// History belongs to the server; the CLI never opens the database.
	cfg.Database.Enabled = false

	logger := root.logger(cmd.ErrOrStderr())
	infra, err := infrastructure.NewWithLogger(cfg, logger)
	if err != nil {
		return err
	}

	adv := infra.Advisor
	if opts.noAdvice {
		adv = advisor.NewWithProvider(nil, &cfg.Advisor, logger)
	}

	c := opts.cmd
	f := cmd.Flags()
	if f.Changed("instr-total-reviews") {
		c.InstrTotalReviews = &opts.instrTotalReviews
	}
	if f.Changed("instr-mean-rating") {
		c.InstrMeanRating = &opts.instrMeanRating
	}
	if f.Changed("instr-course-count") {
		c.InstrCourseCount = &opts.instrCourseCount
	}

	sys := predictions.New(nil, infra.Artifacts, adv, nil, logger, cfg.API.Pagination)
	result, err := sys.Predict(cmd.Context(), c)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printResult(cmd.OutOrStdout(), result)
}

func printResult(w io.Writer, r *predictions.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	course := r.Course
	fmt.Fprintf(tw, "Course:\t%s (%s, %s)\n", course.Title, course.Category, course.Difficulty)
	fmt.Fprintf(tw, "Outcome:\t%s\n", r.Outcome)
	fmt.Fprintf(tw, "Probability:\t%s\n", r.ProbabilityText())
	fmt.Fprintf(tw, "Success score:\t%.3f\n", r.Features.SuccessScore)
	fmt.Fprintf(tw, "Price bucket:\t%s\n", r.Features.PriceBucket)
	fmt.Fprintf(tw, "Duration bucket:\t%s\n", r.Features.DurationBucket)
	fmt.Fprintf(tw, "Model version:\t%s\n", r.ModelVersion)
	if err := tw.Flush(); err != nil {
		return err
	}

	source := string(r.Advice.Source)
	if r.Advice.Model != "" {
		source += ", " + r.Advice.Model
	}
	fmt.Fprintf(w, "\nAdvice (%s):\n%s\n", source, r.Advice.Summary)
	for _, s := range r.Advice.Suggestions {
		fmt.Fprintf(w, "  - %s: %s\n", s.Heading, s.Detail)
	}
	return nil
}
