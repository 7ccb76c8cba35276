package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TaskProvenance records whether a task's audio was uploaded by its owner or
// assigned from someone else's request.
type TaskProvenance string

const (
	ProvenanceLocal  TaskProvenance = "LOCAL"
	ProvenanceRemote TaskProvenance = "REMOTE"
)

// Valid reports whether p is a known provenance.
func (p TaskProvenance) Valid() bool {
	switch p {
	case ProvenanceLocal, ProvenanceRemote:
		return true
	}
	return false
}

// AssignmentStrategy decides who receives tasks spawned by a request.
type AssignmentStrategy string

const (
	// StrategyOwner creates exactly one task for the requester.
	StrategyOwner AssignmentStrategy = "OWNER"
	// StrategyAll creates one task for every other user.
	StrategyAll AssignmentStrategy = "ALL"
)

// Valid reports whether s is a known strategy.
func (s AssignmentStrategy) Valid() bool {
	switch s {
	case StrategyOwner, StrategyAll:
		return true
	}
	return false
}

// RejectReason explains why a transcriber gave up on a task.
type RejectReason string

const (
	RejectUnderstand    RejectReason = "UNDERSTAND"
	RejectLanguage      RejectReason = "LANGUAGE"
	RejectBlank         RejectReason = "BLANK"
	RejectInappropriate RejectReason = "INAPPROPRIATE"
	RejectOther         RejectReason = "OTHER"
)

// Valid reports whether r is a known reject reason.
func (r RejectReason) Valid() bool {
	switch r {
	case RejectUnderstand, RejectLanguage, RejectBlank, RejectInappropriate, RejectOther:
		return true
	}
	return false
}

// Difficulty is the transcriber's rating of a completed task.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Confidence is how sure the transcriber is of the submitted transcript.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Valid reports whether c is a known confidence level.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

// Task is one unit of audio assigned to exactly one user. Transcript holds
// the text of the most recent transcript segment, or "" when none exists.
type Task struct {
	ID           TaskID
	UserID       UserID
	Path         string
	LengthMs     int64
	Provenance   TaskProvenance
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	RejectReason *RejectReason
	Difficulty   *Difficulty
	Confidence   *Confidence
	Transcript   string
}

// Finished reports whether the task was completed or rejected.
func (t *Task) Finished() bool {
	return t.CompletedAt != nil
}

// Request is an originating ask to get audio transcribed.
type Request struct {
	ID          RequestID
	UserID      UserID
	Path        string
	Extension   string
	LengthMs    int64
	Strategy    AssignmentStrategy
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Assignment links a request to a task it produced.
type Assignment struct {
	ID         AssignmentID
	RequestID  RequestID
	TaskID     TaskID
	AssignedAt time.Time
}

// DefaultExtension is used when an uploaded file name carries no extension.
const DefaultExtension = "oga"

// Upload describes an audio file already written to the file store.
type Upload struct {
	Path        string
	DisplayName string
	Extension   string
	LengthMs    int64
}

// NewUpload builds an Upload from the client-supplied file name. The
// extension is everything after the last dot of the base name.
func NewUpload(path, fileName string, lengthMs int64) (Upload, error) {
	if strings.TrimSpace(fileName) == "" {
		return Upload{}, fmt.Errorf("%w: file name", ErrEmptyField)
	}
	if lengthMs < 0 {
		return Upload{}, fmt.Errorf("%w: %d", ErrInvalidLength, lengthMs)
	}
	return Upload{
		Path:        path,
		DisplayName: fileName,
		Extension:   ExtensionOf(fileName),
		LengthMs:    lengthMs,
	}, nil
}

// ExtensionOf returns the suffix after the last dot of name, or
// DefaultExtension when there is none.
func ExtensionOf(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return DefaultExtension
	}
	return base[i+1:]
}

// Completion is what a transcriber reports when finishing a task.
type Completion struct {
	Difficulty  Difficulty
	Confidence  *Confidence
	CompletedAt time.Time
}

// Validate checks the enumerated fields.
func (c Completion) Validate() error {
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidEnum, c.Difficulty)
	}
	if c.Confidence != nil && !c.Confidence.Valid() {
		return fmt.Errorf("%w: confidence %q", ErrInvalidEnum, *c.Confidence)
	}
	return nil
}
