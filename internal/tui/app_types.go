package tui

import (
	"askbob/internal/model"
)

// view maps the original product's routes onto TUI screens:
// /login, / (projects), /projects/:id (tasks).
type view int

const (
	viewLogin view = iota
	viewProjects
	viewTasks
)

// loadState is the per-list synchronization state machine.
type loadState int

const (
	loadIdle loadState = iota
	loadLoading
	loadLoaded
	loadError
)

// authDoneMsg resolves a login or register call.
type authDoneMsg struct {
	token string
	err   error
}

// projectsLoadedMsg and tasksLoadedMsg carry the seq assigned when the load
// was issued. A response whose seq is older than the latest issued load is
// stale and must be discarded, otherwise a slow early response could clobber
// a fast later one.
type projectsLoadedMsg struct {
	seq   int
	items []model.Project
	err   error
}

type tasksLoadedMsg struct {
	seq   int
	items []model.Task
	err   error
}

// projectMutationDoneMsg / taskMutationDoneMsg resolve a create, update or
// delete. Success triggers a fresh load; failure changes nothing.
type projectMutationDoneMsg struct {
	err error
}

type taskMutationDoneMsg struct {
	err error
}

type confirmTarget int

const (
	confirmNone confirmTarget = iota
	confirmDeleteProject
	confirmDeleteTask
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)
