package api

import "errors"

// Fallback messages shown when a failed call carries no server detail.
// This is a fixed per-action table, not inferred from the request.
const (
	fallbackLogin         = "Login failed"
	fallbackRegister      = "Registration failed"
	fallbackLoadProjects  = "Failed to load projects"
	fallbackCreateProject = "Failed to create project"
	fallbackUpdateProject = "Failed to update project"
	fallbackDeleteProject = "Failed to delete project"
	fallbackLoadTasks     = "Failed to load tasks"
	fallbackCreateTask    = "Failed to create task"
	fallbackUpdateTask    = "Failed to update task"
	fallbackDeleteTask    = "Failed to delete"
	fallbackUpdateStatus  = "Failed to update"
)

// Error is any failed API call: a non-2xx response or a transport failure
// (StatusCode 0). The message prefers the server-supplied detail string and
// falls back to the fixed per-action message.
type Error struct {
	StatusCode int
	Detail     string
	Fallback   string
	Err        error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Fallback
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an authentication rejection (401/403).
// The session is not cleared automatically on auth failures; callers decide
// what to do with the distinction.
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
}
