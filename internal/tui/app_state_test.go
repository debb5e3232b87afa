package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"askbob/internal/api"
	"askbob/internal/config"
	"askbob/internal/model"
	"askbob/internal/session"
)

func newTestApp(t *testing.T, handler http.Handler) (*appModel, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.NewStore(filepath.Join(t.TempDir(), "token"))
	cfg := config.Config{ServerURL: srv.URL, PageSize: 20}
	m := newAppModel(api.New(srv.URL, sess, 0), sess, cfg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, sess
}

// drain executes a command tree and returns the produced messages, skipping
// spinner ticks.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	var out []tea.Msg
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, drain(c)...)
		}
	case spinner.TickMsg:
	default:
		out = append(out, msg)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedProjects(m *appModel, projects ...model.Project) {
	m.Update(projectsLoadedMsg{seq: m.projectsSeq, items: projects})
}

func loadedTasks(m *appModel, tasks ...model.Task) {
	m.Update(tasksLoadedMsg{seq: m.tasksSeq, items: tasks})
}

func TestRouteGuard_NoTokenStartsOnLogin(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	if m.view != viewLogin {
		t.Fatalf("view = %d, want login", m.view)
	}
	if got := drain(m.Init()); len(got) != 0 {
		t.Fatalf("login Init should not load anything, got %v", got)
	}
}

func TestRouteGuard_StoredTokenStartsOnProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"p1","name":"Alpha"}]`))
	}))
	t.Cleanup(srv.Close)
	sess := session.NewStore(filepath.Join(t.TempDir(), "token"))
	if err := sess.Set("tok"); err != nil {
		t.Fatal(err)
	}

	m := newAppModel(api.New(srv.URL, sess, 0), sess, config.Config{ServerURL: srv.URL, PageSize: 20})
	if m.view != viewProjects {
		t.Fatalf("view = %d, want projects", m.view)
	}
	msgs := drain(m.Init())
	if len(msgs) != 1 {
		t.Fatalf("expected one load message, got %d", len(msgs))
	}
	m.Update(msgs[0])
	if m.projectsState != loadLoaded || len(m.projectsList.Items()) != 1 {
		t.Fatalf("state=%d items=%d", m.projectsState, len(m.projectsList.Items()))
	}
}

func TestStaleLoadResponseIsDiscarded(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewProjects

	m.startProjectsLoad()
	oldSeq := m.projectsSeq
	m.startProjectsLoad()

	// The slow first response lands after the second load was issued.
	m.Update(projectsLoadedMsg{seq: oldSeq, items: []model.Project{{ID: "old", Name: "Old"}}})
	if m.projectsState != loadLoading || len(m.projectsList.Items()) != 0 {
		t.Fatalf("stale response applied: state=%d items=%d", m.projectsState, len(m.projectsList.Items()))
	}

	m.Update(projectsLoadedMsg{seq: m.projectsSeq, items: []model.Project{{ID: "new", Name: "New"}}})
	if m.projectsState != loadLoaded || len(m.projectsList.Items()) != 1 {
		t.Fatalf("current response not applied: state=%d items=%d", m.projectsState, len(m.projectsList.Items()))
	}
}

func TestFailedReloadKeepsPreviousSnapshot(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewProjects
	m.startProjectsLoad()
	loadedProjects(m, model.Project{ID: "p1", Name: "Alpha"})

	m.startProjectsLoad()
	m.Update(projectsLoadedMsg{seq: m.projectsSeq, err: &api.Error{Fallback: "Failed to load projects"}})

	if m.projectsState != loadError {
		t.Fatalf("state = %d, want error", m.projectsState)
	}
	if len(m.projectsList.Items()) != 1 {
		t.Fatalf("snapshot lost: %d items", len(m.projectsList.Items()))
	}
	view := stripANSIEscapes(m.View())
	if !strings.Contains(view, "Failed to load projects") {
		t.Fatalf("error not rendered:\n%s", view)
	}
	if !strings.Contains(view, "Alpha") {
		t.Fatalf("stale rows not rendered:\n%s", view)
	}
}

func TestEditDraft_NewDraftReplacesOld(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewProjects
	m.startProjectsLoad()
	loadedProjects(m,
		model.Project{ID: "a", Name: "Alpha"},
		model.Project{ID: "b", Name: "Beta"},
	)

	m.Update(keyRunes("e"))
	if m.projectForm == nil || m.projectForm.id != "a" {
		t.Fatalf("expected draft for Alpha, got %+v", m.projectForm)
	}
	m.projectForm.name.SetValue("half-typed rename")

	// Cancel, select Beta, open a new draft. The old draft's input is gone.
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.projectsList.Select(1)
	m.Update(keyRunes("e"))
	if m.projectForm == nil || m.projectForm.id != "b" {
		t.Fatalf("expected draft for Beta, got %+v", m.projectForm)
	}
	if m.projectForm.name.Value() != "Beta" {
		t.Fatalf("draft value = %q, want Beta", m.projectForm.name.Value())
	}
}

func TestFilterAndSortKeysResetOffsetAndReload(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}
	m.taskQuery.ProjectID = "p1"
	m.taskQuery.Limit = 20
	m.taskQuery.Sort = model.SortCreatedDesc

	m.Update(keyRunes("]"))
	if m.taskQuery.Offset != 20 {
		t.Fatalf("offset = %d after paging", m.taskQuery.Offset)
	}
	seqBefore := m.tasksSeq

	m.Update(keyRunes("s"))
	if m.taskQuery.Offset != 0 {
		t.Fatalf("offset = %d, want 0 after filter change", m.taskQuery.Offset)
	}
	if m.taskQuery.StatusFilter != model.StatusTodo {
		t.Fatalf("status filter = %q", m.taskQuery.StatusFilter)
	}
	if m.tasksSeq != seqBefore+1 {
		t.Fatalf("filter change must issue a reload")
	}

	m.Update(keyRunes("o"))
	if m.taskQuery.Sort != model.SortCreatedAsc {
		t.Fatalf("sort = %q", m.taskQuery.Sort)
	}
	if m.taskQuery.Offset != 0 {
		t.Fatalf("offset survived sort change")
	}
}

func TestStatusFilterCyclesBackToAll(t *testing.T) {
	got := model.Status("")
	for i := 0; i < 4; i++ {
		got = nextStatusFilter(got)
	}
	if got != "" {
		t.Fatalf("cycle of 4 should return to all, got %q", got)
	}
}

func TestQuickStatusKeyMutatesThenReloads(t *testing.T) {
	var mu sync.Mutex
	var puts []string
	m, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			puts = append(puts, r.URL.Path)
			mu.Unlock()
		}
		w.Write([]byte(`{}`))
	}))
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}
	m.taskQuery.ProjectID = "p1"
	m.taskQuery.Limit = 20
	m.startTasksLoad()
	loadedTasks(m, model.Task{ID: "t1", ProjectID: "p1", Title: "Ship it", Status: model.StatusTodo})

	_, cmd := m.Update(keyRunes("2"))
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one mutation message, got %d", len(msgs))
	}
	if _, ok := msgs[0].(taskMutationDoneMsg); !ok {
		t.Fatalf("got %T", msgs[0])
	}
	mu.Lock()
	nPuts := len(puts)
	mu.Unlock()
	if nPuts != 1 || puts[0] != "/tasks/t1" {
		t.Fatalf("PUT calls: %v", puts)
	}

	seqBefore := m.tasksSeq
	m.Update(msgs[0])
	if m.tasksSeq != seqBefore+1 || m.tasksState != loadLoading {
		t.Fatalf("mutation success must trigger a reload")
	}
}

func TestQuickStatusNoopWhenAlreadySet(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}
	m.startTasksLoad()
	loadedTasks(m, model.Task{ID: "t1", ProjectID: "p1", Title: "Ship it", Status: model.StatusDone})

	_, cmd := m.Update(keyRunes("3"))
	if msgs := drain(cmd); len(msgs) != 0 {
		t.Fatalf("expected no mutation, got %v", msgs)
	}
}

func TestDeleteConfirm_CancelIsDefaultFocus(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewProjects
	m.startProjectsLoad()
	loadedProjects(m, model.Project{ID: "p1", Name: "Alpha"})

	m.Update(keyRunes("d"))
	if m.confirm != confirmDeleteProject || m.confirmID != "p1" {
		t.Fatalf("confirm = %d id=%q", m.confirm, m.confirmID)
	}
	if m.confirmFocus != confirmFocusCancel {
		t.Fatalf("delete modal must open focused on cancel")
	}

	// Enter on the default focus closes without deleting.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.confirm != confirmNone {
		t.Fatalf("modal still open")
	}
	if msgs := drain(cmd); len(msgs) != 0 {
		t.Fatalf("cancel must not issue a delete, got %v", msgs)
	}
}

func TestDeleteConfirm_ConfirmDeletesAndReloads(t *testing.T) {
	var deleted []string
	m, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = append(deleted, r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))
	m.view = viewProjects
	m.startProjectsLoad()
	loadedProjects(m, model.Project{ID: "p1", Name: "Alpha"})

	m.Update(keyRunes("d"))
	_, cmd := m.Update(keyRunes("y"))
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected delete result, got %v", msgs)
	}
	if len(deleted) != 1 || deleted[0] != "/projects/p1" {
		t.Fatalf("DELETE calls: %v", deleted)
	}

	seqBefore := m.projectsSeq
	m.Update(msgs[0])
	if m.projectsSeq != seqBefore+1 {
		t.Fatalf("delete success must trigger a reload")
	}
}

func TestLoginSuccessNavigatesToProjects(t *testing.T) {
	m, sess := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"access_token":"tok-1"}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	m.login.email.SetValue("a@b.com")
	m.login.password.SetValue("pw")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected auth result, got %v", msgs)
	}
	m.Update(msgs[0])

	if m.view != viewProjects {
		t.Fatalf("view = %d, want projects", m.view)
	}
	if tok, ok := sess.Token(); !ok || tok != "tok-1" {
		t.Fatalf("token not stored: %q %v", tok, ok)
	}
	if m.projectsState != loadLoading {
		t.Fatalf("login success must start the projects load")
	}
}

func TestLoginFailureStaysOnLoginWithMessage(t *testing.T) {
	m, sess := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect email or password"}`))
	}))
	m.login.email.SetValue("a@b.com")
	m.login.password.SetValue("wrong")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected auth result, got %v", msgs)
	}
	m.Update(msgs[0])

	if m.view != viewLogin {
		t.Fatalf("failed login must stay on login view")
	}
	if m.login.errMsg != "Incorrect email or password" {
		t.Fatalf("errMsg = %q", m.login.errMsg)
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("no token should be stored after a failed login")
	}
}

func TestLogoutClearsSessionAndState(t *testing.T) {
	m, sess := newTestApp(t, http.NotFoundHandler())
	if err := sess.Set("tok"); err != nil {
		t.Fatal(err)
	}
	m.view = viewProjects
	m.startProjectsLoad()
	loadedProjects(m, model.Project{ID: "p1", Name: "Alpha"})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.view != viewLogin {
		t.Fatalf("view = %d, want login", m.view)
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("token survived logout")
	}
	if len(m.projectsList.Items()) != 0 {
		t.Fatalf("project rows survived logout")
	}
}

func TestBackFromTasksReloadsProjects(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}

	seqBefore := m.projectsSeq
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewProjects {
		t.Fatalf("view = %d, want projects", m.view)
	}
	if m.projectsSeq != seqBefore+1 {
		t.Fatalf("going back must refresh the project list")
	}
}

func TestTaskFormSaveKeepsFormOpenOnError(t *testing.T) {
	m, _ := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Title too long"}`))
	}))
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}
	m.Update(keyRunes("a"))
	if m.taskForm == nil {
		t.Fatal("form did not open")
	}
	m.taskForm.title.SetValue("x")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected save result, got %v", msgs)
	}
	m.Update(msgs[0])

	if m.taskForm == nil {
		t.Fatalf("form must stay open on save failure")
	}
	if m.taskForm.errMsg != "Title too long" || m.taskForm.busy {
		t.Fatalf("form state: err=%q busy=%v", m.taskForm.errMsg, m.taskForm.busy)
	}
}

func TestTaskFormRequiresTitle(t *testing.T) {
	m, _ := newTestApp(t, http.NotFoundHandler())
	m.view = viewTasks
	m.selectedProject = model.Project{ID: "p1", Name: "Alpha"}
	m.Update(keyRunes("a"))
	m.taskForm.title.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msgs := drain(cmd); len(msgs) != 0 {
		t.Fatalf("blank title must not hit the server, got %v", msgs)
	}
	if m.taskForm.errMsg == "" {
		t.Fatalf("expected a validation message")
	}
}
