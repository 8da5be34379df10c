package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vitalcheck/vitalcheck/internal/api"
	"github.com/vitalcheck/vitalcheck/internal/scoring"
)

// assessFlags maps each wire field to its flag name.
var assessFlags = map[string]string{
	"age":           "age",
	"weight":        "weight",
	"height":        "height",
	"systolic":      "systolic",
	"diastolic":     "diastolic",
	"heartRate":     "heart-rate",
	"exerciseHours": "exercise-hours",
	"sleepHours":    "sleep-hours",
	"stressLevel":   "stress-level",
}

func newAssessCommand() *cobra.Command {
	var (
		in     scoring.Input
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score one set of measurements and print the result",
		Long: "Score measurements given as flags, or as a JSON object in --file " +
			"(use - for stdin) with the same fields the HTTP API accepts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input scoring.Input
				err   error
			)
			if file != "" {
				input, err = readInputFile(cmd.InOrStdin(), file)
			} else {
				input, err = inputFromFlags(cmd, in)
			}
			if err != nil {
				return err
			}

			res := scoring.Assess(input)
			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "text":
				return writeText(cmd.OutOrStdout(), res)
			default:
				return fmt.Errorf("unknown output format %q (want json or text)", output)
			}
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Age, assessFlags["age"], 0, "age in years")
	f.Float64Var(&in.Weight, assessFlags["weight"], 0, "weight in kilograms")
	f.Float64Var(&in.Height, assessFlags["height"], 0, "height in centimeters")
	f.IntVar(&in.Systolic, assessFlags["systolic"], 0, "systolic blood pressure (mmHg)")
	f.IntVar(&in.Diastolic, assessFlags["diastolic"], 0, "diastolic blood pressure (mmHg)")
	f.IntVar(&in.HeartRate, assessFlags["heartRate"], 0, "resting heart rate (bpm)")
	f.Float64Var(&in.ExerciseHours, assessFlags["exerciseHours"], 0, "exercise hours per week")
	f.Float64Var(&in.SleepHours, assessFlags["sleepHours"], 0, "sleep hours per night")
	f.IntVar(&in.StressLevel, assessFlags["stressLevel"], 0, "stress level from 1 (low) to 5 (high)")
	f.StringVarP(&file, "file", "f", "", "read measurements from a JSON file, - for stdin")
	f.StringVarP(&output, "output", "o", "json", "output format: json | text")
	return cmd
}

// inputFromFlags applies the HTTP API's presence and height checks to the
// flag values, treating an unset flag as an absent field.
func inputFromFlags(cmd *cobra.Command, in scoring.Input) (scoring.Input, error) {
	set := func(field string) bool { return cmd.Flags().Changed(assessFlags[field]) }

	var req api.AssessRequest
	if set("age") {
		req.Age = &in.Age
	}
	if set("weight") {
		req.Weight = &in.Weight
	}
	if set("height") {
		req.Height = &in.Height
	}
	if set("systolic") {
		req.Systolic = &in.Systolic
	}
	if set("diastolic") {
		req.Diastolic = &in.Diastolic
	}
	if set("heartRate") {
		req.HeartRate = &in.HeartRate
	}
	if set("exerciseHours") {
		req.ExerciseHours = &in.ExerciseHours
	}
	if set("sleepHours") {
		req.SleepHours = &in.SleepHours
	}
	if set("stressLevel") {
		req.StressLevel = &in.StressLevel
	}
	return req.Input()
}

func readInputFile(stdin io.Reader, path string) (scoring.Input, error) {
	if path == "-" {
		return api.DecodeAssessRequest(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("open measurements: %w", err)
	}
	defer f.Close()
	return api.DecodeAssessRequest(f)
}

func writeText(w io.Writer, res scoring.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Overall score:\t%d (%s)\n", res.OverallScore, res.Status)
	fmt.Fprintf(tw, "BMI:\t%.1f\n", res.BMI)
	fmt.Fprintln(tw, "\t")

	s := res.DetailedScores
	for _, row := range []struct {
		name  string
		score float64
	}{
		{"Age", s.Age},
		{"BMI", s.BMI},
		{"Blood pressure", s.BloodPressure},
		{"Heart rate", s.HeartRate},
		{"Exercise", s.Exercise},
		{"Sleep", s.Sleep},
		{"Stress", s.Stress},
	} {
		fmt.Fprintf(tw, "  %s\t%.0f\n", row.name, row.score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nRecommendations:")
	for _, r := range res.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	return nil
}
