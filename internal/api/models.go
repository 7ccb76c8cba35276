package api

import (
	"time"

	"github.com/reitmaier/transcribe-api/internal/api/shared"
	"github.com/reitmaier/transcribe-api/internal/domain"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
)

// Timestamps cross the wire as epoch milliseconds.

func epochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Mobile   string `json:"mobile"   validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r RegisterRequest) registration() domain.Registration {
	return domain.Registration{
		Mobile:   domain.MobileNumber(r.Mobile),
		Operator: domain.MobileOperator(r.Operator),
		Name:     domain.Name(r.Name),
		Password: domain.Password(r.Password),
	}
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Mobile   string `json:"mobile"   validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

func authResponse(tokens *auth.Tokens) AuthResponse {
	return AuthResponse{
		AccessToken:  string(tokens.AccessToken),
		RefreshToken: string(tokens.RefreshToken),
		ExpiresAt:    epochMillis(tokens.ExpiresAt),
	}
}

// TaskResponse is the client view of a hydrated task.
type TaskResponse struct {
	ID           int64   `json:"id"`
	DisplayName  string  `json:"displayName"`
	LengthMs     int64   `json:"lengthMs"`
	Provenance   string  `json:"provenance"`
	Transcript   string  `json:"transcript"`
	RejectReason *string `json:"rejectReason"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
	CompletedAt  *int64  `json:"completedAt"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          int64(t.ID),
		DisplayName: t.DisplayName,
		LengthMs:    t.LengthMs,
		Provenance:  string(t.Provenance),
		Transcript:  t.Transcript,
		CreatedAt:   epochMillis(t.CreatedAt),
		UpdatedAt:   epochMillis(t.UpdatedAt),
	}
	if t.RejectReason != nil {
		reason := string(*t.RejectReason)
		resp.RejectReason = &reason
	}
	if t.CompletedAt != nil {
		at := epochMillis(*t.CompletedAt)
		resp.CompletedAt = &at
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

// NewTranscriptRequest is one submitted transcript segment. Region bounds are
// capped at the INTEGER range of the transcript columns.
type NewTranscriptRequest struct {
	Transcript  string `json:"transcript"`
	RegionStart int    `json:"regionStart" validate:"gte=0,lte=2147483647"`
	RegionEnd   int    `json:"regionEnd"   validate:"gtefield=RegionStart,lte=2147483647"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// NewTranscriptsRequest is the body of POST /tasks/{taskId}/transcripts.
type NewTranscriptsRequest []NewTranscriptRequest

// Validate checks every segment.
func (r NewTranscriptsRequest) Validate() error {
	for _, segment := range r {
		if err := shared.ValidateRequest(segment); err != nil {
			return err
		}
	}
	return nil
}

func (r NewTranscriptsRequest) candidates() []domain.NewTranscript {
	out := make([]domain.NewTranscript, 0, len(r))
	for _, s := range r {
		out = append(out, domain.NewTranscript{
			Text:        s.Transcript,
			RegionStart: s.RegionStart,
			RegionEnd:   s.RegionEnd,
			UpdatedAt:   fromEpochMillis(s.UpdatedAt),
		})
	}
	return out
}

// CompleteTaskRequest is the body of POST /tasks/{taskId}/complete.
type CompleteTaskRequest struct {
	Difficulty  string  `json:"difficulty"  validate:"required,oneof=EASY MEDIUM HARD"`
	Confidence  *string `json:"confidence"  validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CompletedAt *int64  `json:"completedAt"`
}

func (r CompleteTaskRequest) completion() domain.Completion {
	c := domain.Completion{Difficulty: domain.Difficulty(r.Difficulty)}
	if r.Confidence != nil {
		confidence := domain.Confidence(*r.Confidence)
		c.Confidence = &confidence
	}
	if r.CompletedAt != nil {
		c.CompletedAt = fromEpochMillis(*r.CompletedAt)
	}
	return c
}
