package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vitalcheck/vitalcheck/internal/scoring"
)

// ErrorKind classifies a ValidationError.
type ErrorKind int

const (
	// KindMissing means a required field is absent or null.
	KindMissing ErrorKind = iota
	// KindInvalid means a field is present but unusable.
	KindInvalid
	// KindBody means the body is not a JSON object.
	KindBody
)

// ValidationError reports a request the scorer must not see.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Err   error // underlying decode error, if any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissing:
		return "Missing required field: " + e.Field
	case KindInvalid:
		return "Invalid value for field: " + e.Field
	default:
		return "Invalid request body"
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RequiredFields lists the wire names checked, in reporting order.
var RequiredFields = []string{
	"age", "weight", "height", "systolic", "diastolic",
	"heartRate", "exerciseHours", "sleepHours", "stressLevel",
}

// DecodeAssessRequest reads one JSON object from r and converts it to a
// scoring.Input. Every failure is a *ValidationError.
//
// Presence is checked for all required fields before any value is typed, so
// the first absent or null field wins over a malformed one later in the body.
func DecodeAssessRequest(r io.Reader) (scoring.Input, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return scoring.Input{}, &ValidationError{Kind: KindBody, Err: err}
	}
	for _, name := range RequiredFields {
		if v, ok := raw[name]; !ok || isNull(v) {
			return scoring.Input{}, &ValidationError{Kind: KindMissing, Field: name}
		}
	}

	var req AssessRequest
	for i, target := range req.fields() {
		name := RequiredFields[i]
		if err := json.Unmarshal(raw[name], target); err != nil {
			return scoring.Input{}, &ValidationError{Kind: KindInvalid, Field: name, Err: err}
		}
	}
	return req.Input()
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// fields returns pointers to req's fields in RequiredFields order.
func (req *AssessRequest) fields() []any {
	return []any{
		&req.Age, &req.Weight, &req.Height, &req.Systolic, &req.Diastolic,
		&req.HeartRate, &req.ExerciseHours, &req.SleepHours, &req.StressLevel,
	}
}

// Input checks presence of every required field and converts req.
func (req AssessRequest) Input() (scoring.Input, error) {
	present := []bool{
		req.Age != nil, req.Weight != nil, req.Height != nil,
		req.Systolic != nil, req.Diastolic != nil, req.HeartRate != nil,
		req.ExerciseHours != nil, req.SleepHours != nil, req.StressLevel != nil,
	}
	for i, ok := range present {
		if !ok {
			return scoring.Input{}, &ValidationError{Kind: KindMissing, Field: RequiredFields[i]}
		}
	}

	// BMI divides by height; the scorer itself does not guard against zero.
	if *req.Height <= 0 {
		return scoring.Input{}, &ValidationError{
			Kind:  KindInvalid,
			Field: "height",
			Err:   fmt.Errorf("height %v must be positive", *req.Height),
		}
	}

	return scoring.Input{
		Age:           *req.Age,
		Weight:        *req.Weight,
		Height:        *req.Height,
		Systolic:      *req.Systolic,
		Diastolic:     *req.Diastolic,
		HeartRate:     *req.HeartRate,
		ExerciseHours: *req.ExerciseHours,
		SleepHours:    *req.SleepHours,
		StressLevel:   *req.StressLevel,
	}, nil
}
