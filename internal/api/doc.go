// Package api implements the HTTP interface of vitalcheck.
//
// New(opts) returns an http.Handler (a chi router) that serves:
//
//	POST /api/assess      : score one set of measurements (scoring.Result)
//	GET  /api/v1/health   : liveness: {"status":"ok","version":...}
//	GET  /metrics         : Prometheus exposition, when a registry is given
//	GET  /*               : static files from opts.UIDir, index.html fallback
//
// /api/assess requires all nine fields (age, weight, height, systolic,
// diastolic, heartRate, exerciseHours, sleepHours, stressLevel). The first
// absent or null field in that order is reported as
// 400 {"error":"Missing required field: <name>"} and scoring is never run.
// Wrong JSON types and a non-positive height are reported as
// 400 {"error":"Invalid value for field: <name>"}.
//
// Anything that goes wrong after validation (a panic in the scorer, a result
// that cannot be encoded) is logged with the request id and answered with
// 500 {"error":"An error occurred during health assessment"}.
//
// Every request gets an X-Request-ID (the caller's, or a new UUID) that is
// echoed on the response and included in the access log.
package api
