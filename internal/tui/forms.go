package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"askbob/internal/model"
)

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "> "
	return in
}

// projectForm is the single open create/edit draft for the projects view.
// Opening a new draft replaces any previous one; its unsaved input is gone.
type projectForm struct {
	id     string // empty means create
	name   textinput.Model
	desc   textinput.Model
	focus  int
	busy   bool
	errMsg string
}

func newProjectForm(p *model.Project) *projectForm {
	f := &projectForm{
		name: newInput("Project name", 200),
		desc: newInput("Description (markdown)", 2000),
	}
	if p != nil {
		f.id = p.ID
		f.name.SetValue(p.Name)
		f.desc.SetValue(p.Description)
	}
	f.name.Focus()
	return f
}

func (f *projectForm) fieldCount() int { return 2 }

func (f *projectForm) setFocus(i int) {
	f.focus = ((i % f.fieldCount()) + f.fieldCount()) % f.fieldCount()
	f.name.Blur()
	f.desc.Blur()
	switch f.focus {
	case 0:
		f.name.Focus()
	case 1:
		f.desc.Focus()
	}
}

func (f *projectForm) title() string {
	if f.id == "" {
		return "New project"
	}
	return "Edit project"
}

func (f *projectForm) view(width int) string {
	lines := []string{
		"Name",
		f.name.View(),
		"",
		"Description",
		f.desc.View(),
	}
	if f.errMsg != "" {
		lines = append(lines, "", styleError().Render(f.errMsg))
	}
	if f.busy {
		lines = append(lines, "", styleMuted().Render("Saving…"))
	} else {
		lines = append(lines, "", styleMuted().Render("tab: next field   enter: save   esc: cancel"))
	}
	return renderModalBox(width, f.title(), strings.Join(lines, "\n"))
}

// taskForm is the single open create/edit draft for the tasks view.
type taskForm struct {
	id       string // empty means create
	title    textinput.Model
	assignee textinput.Model
	status   model.Status
	focus    int
	busy     bool
	errMsg   string
}

func newTaskForm(t *model.Task) *taskForm {
	f := &taskForm{
		title:    newInput("Task title", 200),
		assignee: newInput("Assignee (optional)", 100),
		status:   model.StatusTodo,
	}
	if t != nil {
		f.id = t.ID
		f.title.SetValue(t.Title)
		f.assignee.SetValue(t.Assignee)
		f.status = t.Status
	}
	f.title.Focus()
	return f
}

func (f *taskForm) fieldCount() int { return 3 }

func (f *taskForm) setFocus(i int) {
	f.focus = ((i % f.fieldCount()) + f.fieldCount()) % f.fieldCount()
	f.title.Blur()
	f.assignee.Blur()
	switch f.focus {
	case 0:
		f.title.Focus()
	case 1:
		f.assignee.Focus()
	}
}

func (f *taskForm) cycleStatus(delta int) {
	all := model.Statuses()
	idx := 0
	for i, s := range all {
		if s == f.status {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(all) + len(all)) % len(all)
	f.status = all[idx]
}

func (f *taskForm) formTitle() string {
	if f.id == "" {
		return "New task"
	}
	return "Edit task"
}

func (f *taskForm) view(width int) string {
	statusLine := "  " + f.status.Label() + "  "
	if f.focus == 2 {
		statusLine = lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true).
			Render("< " + f.status.Label() + " >")
	}

	lines := []string{
		"Title",
		f.title.View(),
		"",
		"Assignee",
		f.assignee.View(),
		"",
		"Status",
		statusLine,
	}
	if f.errMsg != "" {
		lines = append(lines, "", styleError().Render(f.errMsg))
	}
	if f.busy {
		lines = append(lines, "", styleMuted().Render("Saving…"))
	} else {
		lines = append(lines, "", styleMuted().Render("tab: next field   ←/→: status   enter: save   esc: cancel"))
	}
	return renderModalBox(width, f.formTitle(), strings.Join(lines, "\n"))
}
