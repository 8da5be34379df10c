// Package auth provides API key middleware for the vitalcheck HTTP API.
//
// Guard.Middleware validates the key carried in the configured request header.
// When the mode is not "apikey" or the key is empty, every request passes
// through (useful for local development with auth disabled). A missing or
// incorrect key is answered with 401 immediately.
//
// Guard.Update swaps the settings atomically so a config reload can rotate
// the key without restarting the server.
package auth
