// Package api holds the HTTP handlers of the transcription service. Handlers
// decode and validate requests, call the services and map every failure to
// the fixed status of its domain.Error kind.
package api
