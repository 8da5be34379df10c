package scoring

// BMI band edges in kg/m².
const (
	bmiUnderweight = 18.5
	bmiOverweight  = 25.0
	bmiObese       = 30.0
	bmiSevere      = 35.0
)

// Resting heart rate range in beats per minute.
const (
	restingHRMin = 60
	restingHRMax = 100
)

// BMI returns body mass index for weight in kilograms and height in
// centimeters. height must be non-zero.
func BMI(weight, height float64) float64 {
	m := height / 100
	return weight / (m * m)
}

// ScoreAge scores age in years.
func ScoreAge(age int) float64 {
	switch {
	case age < 30:
		return 100
	case age < 50:
		return 90
	case age < 65:
		return 75
	default:
		return 60
	}
}

// ScoreBMI scores a body mass index. Lower edges are inclusive.
func ScoreBMI(bmi float64) float64 {
	switch {
	case bmi < bmiUnderweight:
		return 60
	case bmi < bmiOverweight:
		return 100
	case bmi < bmiObese:
		return 70
	case bmi < bmiSevere:
		return 50
	default:
		return 30
	}
}

// ScoreBloodPressure scores a systolic/diastolic reading in mmHg. Both values
// must be under a category's limits for the reading to fall in it.
func ScoreBloodPressure(systolic, diastolic int) float64 {
	switch {
	case systolic < 120 && diastolic < 80: // normal
		return 100
	case systolic < 130 && diastolic < 85: // elevated
		return 85
	case systolic < 140 && diastolic < 90: // stage 1
		return 70
	case systolic < 180 && diastolic < 120: // stage 2
		return 40
	default: // crisis
		return 20
	}
}

// ScoreHeartRate scores a resting heart rate. Rates above the resting range
// still earn partial credit up to 60% of the age-predicted maximum (220 − age).
func ScoreHeartRate(heartRate, age int) float64 {
	maxHR := float64(220 - age)
	switch {
	case heartRate >= restingHRMin && heartRate <= restingHRMax:
		return 100
	case heartRate < restingHRMin:
		return 90
	case float64(heartRate) <= maxHR*0.6:
		return 70
	default:
		return 50
	}
}

// ScoreExercise scores weekly exercise hours.
func ScoreExercise(hoursPerWeek float64) float64 {
	switch {
	case hoursPerWeek >= 5:
		return 100
	case hoursPerWeek >= 3:
		return 85
	case hoursPerWeek >= 1:
		return 60
	default:
		return 30
	}
}

// ScoreSleep scores nightly sleep hours.
//
// The second band is "at least 6 or at most 10" as the service has always
// computed it, so every duration outside 7–9 except NaN scores 80.
func ScoreSleep(hoursPerNight float64) float64 {
	switch {
	case hoursPerNight >= 7 && hoursPerNight <= 9:
		return 100
	case hoursPerNight >= 6 || hoursPerNight <= 10:
		return 80
	default:
		return 50
	}
}

// ScoreStress maps a 1 (low) to 5 (high) stress level linearly onto 100..20.
// Levels outside 1–5 extrapolate along the same line.
func ScoreStress(level int) float64 {
	return 100 - float64(level-1)*20
}
