package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"askbob/internal/api"
	"askbob/internal/query"
)

func (m *appModel) selectedProjectItem() (projectItem, bool) {
	it, ok := m.projectsList.SelectedItem().(projectItem)
	return it, ok
}

func (m *appModel) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.projectForm != nil {
		return m.updateProjectForm(msg)
	}

	// While the list's fuzzy filter is being typed, every key belongs to it.
	if m.projectsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.projectsList, cmd = m.projectsList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.startProjectsLoad()
	case "a":
		m.projectForm = newProjectForm(nil)
		return m, textinput.Blink
	case "e":
		if it, ok := m.selectedProjectItem(); ok {
			p := it.project
			// A new draft replaces any previous one.
			m.projectForm = newProjectForm(&p)
			return m, textinput.Blink
		}
		return m, nil
	case "d":
		if it, ok := m.selectedProjectItem(); ok {
			m.openConfirm(confirmDeleteProject, it.project.ID)
		}
		return m, nil
	case "enter":
		if it, ok := m.selectedProjectItem(); ok {
			return m.openProject(it)
		}
		return m, nil
	case "ctrl+l":
		return m.logout()
	}

	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

func (m *appModel) openProject(it projectItem) (tea.Model, tea.Cmd) {
	m.selectedProject = it.project
	m.view = viewTasks
	m.taskQuery = query.NewTaskQuery(it.project.ID, m.cfg.PageSize)
	m.tasksList.SetItems(nil)
	m.resizeLists()
	return m, m.startTasksLoad()
}

func (m *appModel) updateProjectForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.projectForm
	if f.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.projectForm = nil
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, textinput.Blink
	case "enter":
		return m.saveProjectForm()
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.name, cmd = f.name.Update(msg)
	case 1:
		f.desc, cmd = f.desc.Update(msg)
	}
	return m, cmd
}

func (m *appModel) saveProjectForm() (tea.Model, tea.Cmd) {
	f := m.projectForm
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		f.errMsg = "Name is required"
		return m, nil
	}
	desc := strings.TrimSpace(f.desc.Value())

	f.busy = true
	f.errMsg = ""
	client := m.client
	id := f.id
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		var err error
		if id == "" {
			_, err = client.CreateProject(context.Background(), name, desc)
		} else {
			patch := api.ProjectPatch{Name: &name, Description: &desc}
			_, err = client.UpdateProject(context.Background(), id, patch)
		}
		return projectMutationDoneMsg{err: err}
	})
}

func (m *appModel) viewProjects() string {
	var b strings.Builder

	head := styleHeader().Render("Projects")
	if m.projectsState == loadLoading {
		head += "  " + m.spin.View() + styleMuted().Render("loading…")
	}
	b.WriteString(head + "\n")

	if m.projectsErr != "" {
		b.WriteString(styleError().Render(m.projectsErr) + "\n")
	} else {
		b.WriteString("\n")
	}

	switch {
	case m.projectsState == loadLoading && len(m.projectsList.Items()) == 0:
		b.WriteString(styleMuted().Render("Loading projects…") + "\n")
	case m.projectsState == loadLoaded && len(m.projectsList.Items()) == 0:
		b.WriteString(styleMuted().Render("No projects yet. Press 'a' to create one.") + "\n")
	default:
		b.WriteString(m.projectsList.View() + "\n")
	}

	b.WriteString("\n" + styleMuted().Render("enter: open   a: add   e: edit   d: delete   /: filter   r: reload   ctrl+l: logout   q: quit"))
	return b.String()
}
