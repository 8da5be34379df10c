package scoring

import "math"

// Weight constants for the overall score formula.
// They must sum to 1.0.
const (
	weightAge           = 0.15
	weightBMI           = 0.25
	weightBloodPressure = 0.20
	weightHeartRate     = 0.15
	weightExercise      = 0.10
	weightSleep         = 0.10
	weightStress        = 0.05
)

// Status is the qualitative label attached to an overall score.
type Status string

// Status values returned by Classify.
const (
	StatusExcellent        Status = "Excellent"
	StatusGood             Status = "Good"
	StatusFair             Status = "Fair"
	StatusNeedsImprovement Status = "Needs Improvement"
)

// Thresholds that map an overall score to a Status.
const (
	ThresholdExcellent = 85.0
	ThresholdGood      = 70.0
	ThresholdFair      = 50.0
)

// Input holds one person's measurements.
type Input struct {
	Age           int     // years
	Weight        float64 // kilograms
	Height        float64 // centimeters
	Systolic      int     // mmHg
	Diastolic     int     // mmHg
	HeartRate     int     // resting beats per minute
	ExerciseHours float64 // hours per week
	SleepHours    float64 // hours per night
	StressLevel   int     // 1 (low) to 5 (high)
}

// Scores is the per-metric breakdown. Each value is in the range 0–100 for
// in-range input. Field order is the order metrics appear on the wire.
type Scores struct {
	Age           float64 `json:"age"`
	BMI           float64 `json:"bmi"`
	BloodPressure float64 `json:"bloodPressure"`
	HeartRate     float64 `json:"heartRate"`
	Exercise      float64 `json:"exercise"`
	Sleep         float64 `json:"sleep"`
	Stress        float64 `json:"stress"`
}

// Overall returns the weighted sum of the sub-scores, unrounded.
func (s Scores) Overall() float64 {
	return s.Age*weightAge +
		s.BMI*weightBMI +
		s.BloodPressure*weightBloodPressure +
		s.HeartRate*weightHeartRate +
		s.Exercise*weightExercise +
		s.Sleep*weightSleep +
		s.Stress*weightStress
}

// Result is the assessment returned for one Input.
type Result struct {
	// OverallScore is the weighted score rounded to the nearest integer.
	OverallScore int `json:"overallScore"`

	// Status is derived from the unrounded weighted score.
	Status Status `json:"status"`

	// BMI is rounded to one decimal place.
	BMI float64 `json:"bmi"`

	// DetailedScores holds the seven unrounded sub-scores.
	DetailedScores Scores `json:"detailedScores"`

	// Recommendations is the fixed advice list for Status.
	Recommendations []string `json:"recommendations"`
}

// Assess scores in and returns the full assessment.
//
// Assess never fails and keeps no state between calls. in.Height must be
// non-zero; every other value is accepted as-is.
func Assess(in Input) Result {
	bmi := BMI(in.Weight, in.Height)

	scores := Scores{
		Age:           ScoreAge(in.Age),
		BMI:           ScoreBMI(bmi),
		BloodPressure: ScoreBloodPressure(in.Systolic, in.Diastolic),
		HeartRate:     ScoreHeartRate(in.HeartRate, in.Age),
		Exercise:      ScoreExercise(in.ExerciseHours),
		Sleep:         ScoreSleep(in.SleepHours),
		Stress:        ScoreStress(in.StressLevel),
	}

	overall := scores.Overall()
	status := Classify(overall)

	return Result{
		OverallScore:    int(roundHalfUp(overall)),
		Status:          status,
		BMI:             roundHalfUp(bmi*10) / 10,
		DetailedScores:  scores,
		Recommendations: Recommendations(status),
	}
}

// Classify maps a weighted score to a Status.
func Classify(score float64) Status {
	switch {
	case score >= ThresholdExcellent:
		return StatusExcellent
	case score >= ThresholdGood:
		return StatusGood
	case score >= ThresholdFair:
		return StatusFair
	default:
		return StatusNeedsImprovement
	}
}

// roundHalfUp rounds to the nearest integer with .5 going toward +Inf,
// so -2.5 becomes -2 rather than math.Round's -3.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
