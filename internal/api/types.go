package api

// AssessRequest is the body of POST /api/assess. Pointer fields distinguish
// an absent or null key from a zero value.
type AssessRequest struct {
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	Systolic      *int     `json:"systolic"`
	Diastolic     *int     `json:"diastolic"`
	HeartRate     *int     `json:"heartRate"`
	ExerciseHours *float64 `json:"exerciseHours"`
	SleepHours    *float64 `json:"sleepHours"`
	StressLevel   *int     `json:"stressLevel"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
