package domain

import "time"

// Transcript is one submitted text segment covering a region of a task's audio.
type Transcript struct {
	ID              TranscriptID
	TaskID          TaskID
	RegionStart     int
	RegionEnd       int
	Text            string
	ClientUpdatedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTranscript is a candidate segment submitted by a client.
type NewTranscript struct {
	Text        string
	RegionStart int
	RegionEnd   int
	UpdatedAt   time.Time
}

type transcriptKey struct {
	start, end int
	text       string
}

// DedupeTranscripts drops every candidate whose region bounds and text match
// an existing transcript or an earlier candidate. Order is preserved.
func DedupeTranscripts(existing []*Transcript, candidates []NewTranscript) []NewTranscript {
	seen := make(map[transcriptKey]struct{}, len(existing)+len(candidates))
	for _, t := range existing {
		seen[transcriptKey{t.RegionStart, t.RegionEnd, t.Text}] = struct{}{}
	}

	fresh := make([]NewTranscript, 0, len(candidates))
	for _, c := range candidates {
		k := transcriptKey{c.RegionStart, c.RegionEnd, c.Text}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, c)
	}
	return fresh
}
