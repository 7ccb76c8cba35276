package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserSummaries(t *testing.T) {
	done := time.Now()
	alice := &User{ID: 1, Name: "alice"}
	bob := &User{ID: 2, Name: "bob"}
	status := &DeploymentStatus{
		Users: []*User{alice, bob},
		Tasks: []*Task{
			{ID: 1, UserID: 1, LengthMs: 90_000, CompletedAt: &done},
			{ID: 2, UserID: 1, LengthMs: 45_000},
			{ID: 3, UserID: 2, LengthMs: 10_000},
		},
	}

	summaries := status.UserSummaries()
	require.Len(t, summaries, 2)

	assert.Equal(t, alice, summaries[0].User)
	assert.Equal(t, 1, summaries[0].Completed)
	assert.Equal(t, 1, summaries[0].Incomplete)
	assert.Equal(t, 2, summaries[0].Assignments())
	assert.Equal(t, int64(2), summaries[0].Minutes)
	assert.Equal(t, int64(60), summaries[0].Earnings())

	assert.Equal(t, 0, summaries[1].Completed)
	assert.Equal(t, int64(0), summaries[1].Minutes)
	assert.Equal(t, int64(20), summaries[1].Earnings())
}

func TestTaskGroups(t *testing.T) {
	status := &DeploymentStatus{
		Tasks: []*Task{
			{ID: 1, Path: "data/a.task"},
			{ID: 2, Path: "data/b.task"},
			{ID: 3, Path: "data/b.task"},
			{ID: 4, Path: "data/c.task"},
			{ID: 5, Path: "data/b.task"},
		},
	}

	groups := status.TaskGroups()
	require.Len(t, groups, 3)
	assert.Equal(t, "data/b.task", groups[0].Path)
	assert.Len(t, groups[0].Tasks, 3)
	assert.Equal(t, "b.task", groups[0].Label())
	assert.Equal(t, "data/a.task", groups[1].Path)
	assert.Equal(t, "data/c.task", groups[2].Path)
}
