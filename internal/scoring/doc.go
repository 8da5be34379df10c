// Package scoring computes the wellness assessment for one set of personal
// health measurements.
//
// bands.go holds the seven piecewise-constant scoring curves (age, BMI, blood
// pressure, resting heart rate, weekly exercise, nightly sleep, stress level).
//
// score.go provides the pure Assess(Input) function: it derives BMI, scores
// each metric, combines the sub-scores with fixed weights
// (BMI 25%, blood pressure 20%, age 15%, heart rate 15%, exercise 10%,
// sleep 10%, stress 5%) and classifies the result.
//
// Status thresholds: Excellent ≥85, Good ≥70, Fair ≥50, Needs Improvement <50.
//
// Nothing here validates input. Physically impossible values fall into
// whichever band matches first; callers reject absent fields and a zero
// height before calling Assess.
package scoring
