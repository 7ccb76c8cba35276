// Package service contains the transcription use cases: registration and
// login, task upload and distribution, transcript submission, task completion
// and deployment reporting.
//
// Services receive store interfaces and a transaction starter through their
// constructors. Every multi-statement mutation runs inside
// store.RunInTransaction using WithTx-bound stores, so an operation either
// commits as a whole or leaves no trace.
//
// Error handling:
//   - Store and driver errors never cross the service boundary. Each failure is
//     returned as an *OperationError carrying exactly one domain.Error kind.
//   - Unexpected failures, including commit and rollback errors, become
//     domain.ErrDatabase and are logged with their cause.
//   - Expected outcomes (not found, duplicate, already finished) are logged at
//     debug level only.
package service
