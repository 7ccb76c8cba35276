package redact_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reitmaier/transcribe-api/internal/redact"
	"github.com/stretchr/testify/assert"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no sensitive data",
			input:    "task 12 completed",
			expected: "task 12 completed",
		},
		{
			name:     "database connection string",
			input:    "connect to postgres://app:s3cret@db:5432/transcribe failed",
			expected: "connect to postgres://[REDACTED_CREDENTIAL]@db:5432/transcribe failed",
		},
		{
			name:     "password parameter",
			input:    "login with password=hunter2 rejected",
			expected: "login with password=[REDACTED_CREDENTIAL] rejected",
		},
		{
			name:     "JWT",
			input:    "Bearer eyJhbGciOiJIUzI1NiJ9.eyJtb2JpbGUiOiIxIn0.abc_def-1",
			expected: "Bearer [REDACTED_JWT]",
		},
		{
			name:     "international mobile number",
			input:    "user +27821234567 not found",
			expected: "user [REDACTED_MOBILE] not found",
		},
		{
			name:     "local mobile number",
			input:    "user 0821234567 not found",
			expected: "user [REDACTED_MOBILE] not found",
		},
		{
			name:     "refresh token",
			input:    "refresh token 123e4567-e89b-12d3-a456-426614174000 unknown",
			expected: "refresh token [REDACTED_TOKEN] unknown",
		},
		{
			name:     "SQL statement",
			input:    "query failed: SELECT id FROM users WHERE mobile_number = $1",
			expected: "query failed: SELECT [REDACTED_SQL]",
		},
		{
			name:     "lowercase words are not SQL",
			input:    "please select a file to update",
			expected: "please select a file to update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redact.String(tt.input))
		})
	}
}

func TestRedactError(t *testing.T) {
	assert.Equal(t, "", redact.Error(nil))

	err := fmt.Errorf("creating user: %w", errors.New("duplicate mobile +27821234567"))
	assert.Equal(t, "creating user: duplicate mobile [REDACTED_MOBILE]", redact.Error(err))
}
