package domain

import (
	"sort"
	"strings"
	"time"
)

// RatePerMinute is the payout in rand for each started minute of audio.
const RatePerMinute = 20

// Deployment is a named, time-boxed grouping of transcribers.
type Deployment struct {
	ID          DeploymentID
	Name        string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// DeploymentStatus is the unsynchronised result of the three status reads.
type DeploymentStatus struct {
	Deployment *Deployment
	Users      []*User
	Tasks      []*Task
}

// UserSummary aggregates one transcriber's tasks within a deployment.
type UserSummary struct {
	User       *User
	Completed  int
	Incomplete int
	Minutes    int64
}

// Assignments is the total number of tasks the user holds.
func (s UserSummary) Assignments() int {
	return s.Completed + s.Incomplete
}

// Earnings is the payout in rand for the user's audio.
func (s UserSummary) Earnings() int64 {
	return (s.Minutes + 1) * RatePerMinute
}

// UserSummaries returns one summary per deployment user, in user order.
// Minutes count the whole length of every task the user holds.
func (d *DeploymentStatus) UserSummaries() []UserSummary {
	summaries := make([]UserSummary, 0, len(d.Users))
	for _, u := range d.Users {
		s := UserSummary{User: u}
		var lengthMs int64
		for _, t := range d.Tasks {
			if t.UserID != u.ID {
				continue
			}
			if t.Finished() {
				s.Completed++
			} else {
				s.Incomplete++
			}
			lengthMs += t.LengthMs
		}
		s.Minutes = int64((time.Duration(lengthMs) * time.Millisecond) / time.Minute)
		summaries = append(summaries, s)
	}
	return summaries
}

// TaskGroup is every task sharing one stored audio file.
type TaskGroup struct {
	Path  string
	Tasks []*Task
}

// Label is the file name part of the group's path.
func (g TaskGroup) Label() string {
	if i := strings.LastIndex(g.Path, "/"); i >= 0 {
		return g.Path[i+1:]
	}
	return g.Path
}

// TaskGroups groups tasks by path, largest group first. Groups of equal
// size keep the order in which their path first appeared.
func (d *DeploymentStatus) TaskGroups() []TaskGroup {
	index := make(map[string]int)
	var groups []TaskGroup
	for _, t := range d.Tasks {
		i, ok := index[t.Path]
		if !ok {
			i = len(groups)
			index[t.Path] = i
			groups = append(groups, TaskGroup{Path: t.Path})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return len(groups[a].Tasks) > len(groups[b].Tasks)
	})
	return groups
}

// Settings mirrors the single settings row.
type Settings struct {
	Version int
}
