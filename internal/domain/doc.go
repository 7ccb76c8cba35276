// Package domain contains the core entities of the transcription service:
// users, tasks, requests, assignments, transcripts and deployments, plus the
// closed set of Error kinds every service operation reports.
//
// Identifiers, tokens and phone numbers are distinct named types so that an id
// of one entity cannot be passed where another is expected.
package domain
