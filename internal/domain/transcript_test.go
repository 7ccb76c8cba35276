package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupeTranscripts(t *testing.T) {
	now := time.Now()
	existing := []*Transcript{
		{ID: 1, TaskID: 9, RegionStart: 0, RegionEnd: 5, Text: "hello"},
	}

	tests := []struct {
		name       string
		candidates []NewTranscript
		want       []string
	}{
		{
			name:       "exact duplicate of stored row is skipped",
			candidates: []NewTranscript{{Text: "hello", RegionStart: 0, RegionEnd: 5, UpdatedAt: now}},
			want:       []string{},
		},
		{
			name: "same text with different bounds is kept",
			candidates: []NewTranscript{
				{Text: "hello", RegionStart: 0, RegionEnd: 6, UpdatedAt: now},
				{Text: "hello", RegionStart: 1, RegionEnd: 5, UpdatedAt: now},
			},
			want: []string{"hello", "hello"},
		},
		{
			name: "duplicates within one batch collapse",
			candidates: []NewTranscript{
				{Text: "world", RegionStart: 5, RegionEnd: 10, UpdatedAt: now},
				{Text: "world", RegionStart: 5, RegionEnd: 10, UpdatedAt: now.Add(time.Second)},
				{Text: "again", RegionStart: 10, RegionEnd: 15, UpdatedAt: now},
			},
			want: []string{"world", "again"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeTranscripts(existing, tt.candidates)
			texts := make([]string, 0, len(got))
			for _, c := range got {
				texts = append(texts, c.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}
