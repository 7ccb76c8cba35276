// Package mocks provides function-field fakes of the service interfaces for
// handler and middleware tests.
//
// Every mock has one Fn field per interface method. A nil field makes the
// method return zero values, or ErrNotConfigured where the method returns an
// error, so a test only wires the calls it expects:
//
//	tasks := &mocks.MockTaskService{
//	    GetUserTaskFn: func(ctx context.Context, userID domain.UserID, taskID domain.TaskID) (*domain.Task, error) {
//	        return nil, domain.ErrTaskNotFound
//	    },
//	}
package mocks

import "errors"

// ErrNotConfigured is returned by a mock method whose Fn field is nil.
var ErrNotConfigured = errors.New("mock method not configured")
