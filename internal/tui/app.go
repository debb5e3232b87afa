// Package tui is the interactive terminal frontend. It mirrors the product's
// three screens (login, project list, per-project task board) as bubbletea
// views over the same HTTP client the CLI subcommands use.
//
// List data follows a strict load/mutate/reload cycle: every successful
// create, update or delete triggers a fresh load of the affected list, and the
// rendered list only ever changes when a load lands. A load that fails leaves
// the previous snapshot on screen next to the error message.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"askbob/internal/api"
	"askbob/internal/config"
	"askbob/internal/model"
	"askbob/internal/query"
	"askbob/internal/session"
)

type appModel struct {
	client *api.Client
	sess   *session.Store
	cfg    config.Config

	width  int
	height int

	view view
	spin spinner.Model

	login loginModel

	projectsList  list.Model
	projectsState loadState
	projectsErr   string
	projectsSeq   int
	projectForm   *projectForm

	selectedProject model.Project
	tasksList       list.Model
	tasksState      loadState
	tasksErr        string
	tasksSeq        int
	taskQuery       query.TaskQuery
	taskForm        *taskForm

	confirm      confirmTarget
	confirmID    string
	confirmFocus confirmModalFocus
}

func newAppModel(client *api.Client, sess *session.Store, cfg config.Config) *appModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &appModel{
		client:       client,
		sess:         sess,
		cfg:          cfg,
		view:         viewLogin,
		spin:         sp,
		login:        newLoginModel(),
		projectsList: newProjectsList(),
		tasksList:    newTasksList(),
	}
	// Route guard: with a stored token we land on the project list, otherwise
	// on the login screen. A token that turns out to be expired surfaces as a
	// load error, not a redirect.
	if _, ok := sess.Token(); ok {
		m.view = viewProjects
	}
	return m
}

func (m *appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.view == viewProjects {
		cmds = append(cmds, m.startProjectsLoad())
	}
	return tea.Batch(cmds...)
}

// startProjectsLoad bumps the load sequence and issues a fresh fetch. Bumping
// first means any response from an earlier fetch arrives with a stale seq and
// is dropped, so a slow old response can never overwrite a newer one.
func (m *appModel) startProjectsLoad() tea.Cmd {
	m.projectsSeq++
	m.projectsState = loadLoading
	m.projectsErr = ""
	seq := m.projectsSeq
	client := m.client
	return func() tea.Msg {
		items, err := client.ListProjects(context.Background())
		return projectsLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m *appModel) startTasksLoad() tea.Cmd {
	m.tasksSeq++
	m.tasksState = loadLoading
	m.tasksErr = ""
	seq := m.tasksSeq
	client := m.client
	q := m.taskQuery
	return func() tea.Msg {
		items, err := client.ListTasks(context.Background(), q)
		return tasksLoadedMsg{seq: seq, items: items, err: err}
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case projectsLoadedMsg:
		if msg.seq != m.projectsSeq {
			// Superseded by a newer load; drop it.
			return m, nil
		}
		if msg.err != nil {
			m.projectsState = loadError
			m.projectsErr = msg.err.Error()
			return m, nil
		}
		m.projectsState = loadLoaded
		m.projectsErr = ""
		items := make([]list.Item, 0, len(msg.items))
		for _, p := range msg.items {
			items = append(items, projectItem{project: p})
		}
		return m, m.projectsList.SetItems(items)

	case tasksLoadedMsg:
		if msg.seq != m.tasksSeq {
			return m, nil
		}
		if msg.err != nil {
			m.tasksState = loadError
			m.tasksErr = msg.err.Error()
			return m, nil
		}
		m.tasksState = loadLoaded
		m.tasksErr = ""
		items := make([]list.Item, 0, len(msg.items))
		for _, t := range msg.items {
			items = append(items, taskItem{task: t})
		}
		return m, m.tasksList.SetItems(items)

	case projectMutationDoneMsg:
		if msg.err != nil {
			if m.projectForm != nil {
				m.projectForm.busy = false
				m.projectForm.errMsg = msg.err.Error()
				return m, nil
			}
			m.projectsErr = msg.err.Error()
			return m, nil
		}
		m.projectForm = nil
		return m, m.startProjectsLoad()

	case taskMutationDoneMsg:
		if msg.err != nil {
			if m.taskForm != nil {
				m.taskForm.busy = false
				m.taskForm.errMsg = msg.err.Error()
				return m, nil
			}
			m.tasksErr = msg.err.Error()
			return m, nil
		}
		m.taskForm = nil
		return m, m.startTasksLoad()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		switch m.view {
		case viewLogin:
			return m.updateLogin(msg)
		case viewProjects:
			return m.updateProjects(msg)
		case viewTasks:
			return m.updateTasks(msg)
		}
	}
	return m, nil
}

func (m *appModel) resizeLists() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// Header, error line and footer are rendered around the list.
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	m.projectsList.SetSize(m.width, h)

	th := m.height - 7 - m.tasksHeaderExtra()
	if th < 3 {
		th = 3
	}
	m.tasksList.SetSize(m.width, th)
}

func (m *appModel) View() string {
	if m.confirm != confirmNone {
		title, body := m.confirmCopy()
		return placeCentered(m.width, m.height, renderConfirmModal(m.width, title, body, "Delete", "Cancel", m.confirmFocus))
	}
	switch m.view {
	case viewLogin:
		return m.viewLogin()
	case viewProjects:
		if m.projectForm != nil {
			return placeCentered(m.width, m.height, m.projectForm.view(m.width))
		}
		return m.viewProjects()
	case viewTasks:
		if m.taskForm != nil {
			return placeCentered(m.width, m.height, m.taskForm.view(m.width))
		}
		return m.viewTasks()
	}
	return ""
}

func (m *appModel) confirmCopy() (title, body string) {
	switch m.confirm {
	case confirmDeleteProject:
		return "Delete project", "Delete this project and all of its tasks? This cannot be undone."
	case confirmDeleteTask:
		return "Delete task", "Delete this task? This cannot be undone."
	}
	return "", ""
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "esc", "n":
		m.closeConfirm()
		return m, nil
	case "y":
		return m.runConfirmedDelete()
	case "enter":
		if m.confirmFocus == confirmFocusCancel {
			m.closeConfirm()
			return m, nil
		}
		return m.runConfirmedDelete()
	}
	return m, nil
}

func (m *appModel) closeConfirm() {
	m.confirm = confirmNone
	m.confirmID = ""
	m.confirmFocus = confirmFocusCancel
}

func (m *appModel) runConfirmedDelete() (tea.Model, tea.Cmd) {
	target, id := m.confirm, m.confirmID
	m.closeConfirm()
	client := m.client
	switch target {
	case confirmDeleteProject:
		return m, func() tea.Msg {
			return projectMutationDoneMsg{err: client.DeleteProject(context.Background(), id)}
		}
	case confirmDeleteTask:
		return m, func() tea.Msg {
			return taskMutationDoneMsg{err: client.DeleteTask(context.Background(), id)}
		}
	}
	return m, nil
}

// openConfirm arms the delete modal. Focus starts on Cancel so a reflexive
// double-enter does not destroy anything.
func (m *appModel) openConfirm(target confirmTarget, id string) {
	m.confirm = target
	m.confirmID = id
	m.confirmFocus = confirmFocusCancel
}

func (m *appModel) logout() (tea.Model, tea.Cmd) {
	_ = m.sess.Clear()
	m.view = viewLogin
	m.login = newLoginModel()
	m.projectsList.SetItems(nil)
	m.projectsState = loadIdle
	m.projectsErr = ""
	m.projectForm = nil
	m.tasksList.SetItems(nil)
	m.tasksState = loadIdle
	m.taskForm = nil
	return m, nil
}
