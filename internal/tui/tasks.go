package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"askbob/internal/api"
	"askbob/internal/model"
)

func (m *appModel) selectedTaskItem() (taskItem, bool) {
	it, ok := m.tasksList.SelectedItem().(taskItem)
	return it, ok
}

func (m *appModel) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.taskForm != nil {
		return m.updateTaskForm(msg)
	}

	if m.tasksList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tasksList, cmd = m.tasksList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.backToProjects()
	case "r":
		return m, m.startTasksLoad()
	case "a":
		m.taskForm = newTaskForm(nil)
		return m, textinput.Blink
	case "e", "enter":
		if it, ok := m.selectedTaskItem(); ok {
			t := it.task
			m.taskForm = newTaskForm(&t)
			return m, textinput.Blink
		}
		return m, nil
	case "d":
		if it, ok := m.selectedTaskItem(); ok {
			m.openConfirm(confirmDeleteTask, it.task.ID)
		}
		return m, nil
	case "1", "2", "3":
		statuses := model.Statuses()
		return m.quickSetStatus(statuses[int(msg.String()[0]-'1')])
	case "s":
		m.taskQuery.SetStatusFilter(nextStatusFilter(m.taskQuery.StatusFilter))
		return m, m.startTasksLoad()
	case "p":
		m.taskQuery.SetPriorityFilter(nextPriorityFilter(m.taskQuery.PriorityFilter))
		return m, m.startTasksLoad()
	case "o":
		m.taskQuery.SetSort(nextSortKey(m.taskQuery.Sort))
		return m, m.startTasksLoad()
	case "]":
		m.taskQuery.NextPage()
		return m, m.startTasksLoad()
	case "[":
		if m.taskQuery.Offset == 0 {
			return m, nil
		}
		m.taskQuery.PrevPage()
		return m, m.startTasksLoad()
	case "ctrl+l":
		return m.logout()
	}

	var cmd tea.Cmd
	m.tasksList, cmd = m.tasksList.Update(msg)
	return m, cmd
}

func (m *appModel) backToProjects() (tea.Model, tea.Cmd) {
	m.view = viewProjects
	m.tasksErr = ""
	// The project list may have changed while we were away.
	return m, m.startProjectsLoad()
}

func (m *appModel) quickSetStatus(s model.Status) (tea.Model, tea.Cmd) {
	it, ok := m.selectedTaskItem()
	if !ok || it.task.Status == s {
		return m, nil
	}
	client := m.client
	id := it.task.ID
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return taskMutationDoneMsg{err: client.SetTaskStatus(context.Background(), id, s)}
	})
}

// Filter cycles: "all" sits between the last and first concrete value.
func nextStatusFilter(s model.Status) model.Status {
	all := model.Statuses()
	if s == "" {
		return all[0]
	}
	for i, v := range all {
		if v == s {
			if i == len(all)-1 {
				return ""
			}
			return all[i+1]
		}
	}
	return ""
}

func nextPriorityFilter(p model.Priority) model.Priority {
	all := model.Priorities()
	if p == "" {
		return all[0]
	}
	for i, v := range all {
		if v == p {
			if i == len(all)-1 {
				return ""
			}
			return all[i+1]
		}
	}
	return ""
}

func nextSortKey(k model.SortKey) model.SortKey {
	all := model.SortKeys()
	for i, v := range all {
		if v == k {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m *appModel) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.taskForm
	if f.busy {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.taskForm = nil
		return m, nil
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return m, textinput.Blink
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return m, textinput.Blink
	case "left":
		if f.focus == 2 {
			f.cycleStatus(-1)
			return m, nil
		}
	case "right":
		if f.focus == 2 {
			f.cycleStatus(1)
			return m, nil
		}
	case "enter":
		return m.saveTaskForm()
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.title, cmd = f.title.Update(msg)
	case 1:
		f.assignee, cmd = f.assignee.Update(msg)
	}
	return m, cmd
}

func (m *appModel) saveTaskForm() (tea.Model, tea.Cmd) {
	f := m.taskForm
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.errMsg = "Title is required"
		return m, nil
	}
	assignee := strings.TrimSpace(f.assignee.Value())
	status := f.status

	f.busy = true
	f.errMsg = ""
	client := m.client
	id := f.id
	projectID := m.selectedProject.ID
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		var err error
		if id == "" {
			_, err = client.CreateTask(context.Background(), api.TaskCreate{
				Title:     title,
				Status:    status,
				Assignee:  assignee,
				ProjectID: projectID,
			})
		} else {
			patch := api.TaskPatch{Title: &title, Status: &status, Assignee: &assignee}
			_, err = client.UpdateTask(context.Background(), id, patch)
		}
		return taskMutationDoneMsg{err: err}
	})
}

const maxDescriptionLines = 6

func (m *appModel) renderProjectDescription() string {
	desc := strings.TrimSpace(m.selectedProject.Description)
	if desc == "" {
		return ""
	}
	out := renderMarkdown(desc, m.width)
	lines := strings.Split(out, "\n")
	if len(lines) > maxDescriptionLines {
		lines = append(lines[:maxDescriptionLines-1], styleMuted().Render("…"))
	}
	return strings.Join(lines, "\n")
}

func (m *appModel) tasksHeaderExtra() int {
	desc := m.renderProjectDescription()
	if desc == "" {
		return 0
	}
	return strings.Count(desc, "\n") + 1
}

func (m *appModel) filterBar() string {
	statusLabel := "all"
	if m.taskQuery.StatusFilter != "" {
		statusLabel = m.taskQuery.StatusFilter.Label()
	}
	priorityLabel := "all"
	if m.taskQuery.PriorityFilter != "" {
		priorityLabel = string(m.taskQuery.PriorityFilter)
	}
	return styleMuted().Render(fmt.Sprintf(
		"status: %s   priority: %s   sort: %s   page %d",
		statusLabel, priorityLabel, m.taskQuery.Sort.Label(), m.taskQuery.Page(),
	))
}

func (m *appModel) viewTasks() string {
	var b strings.Builder

	head := styleHeader().Render(m.selectedProject.Name)
	if m.tasksState == loadLoading {
		head += "  " + m.spin.View() + styleMuted().Render("loading…")
	}
	b.WriteString(head + "\n")

	if desc := m.renderProjectDescription(); desc != "" {
		b.WriteString(desc + "\n")
	}

	b.WriteString(m.filterBar() + "\n")

	if m.tasksErr != "" {
		b.WriteString(styleError().Render(m.tasksErr) + "\n")
	} else {
		b.WriteString("\n")
	}

	switch {
	case m.tasksState == loadLoading && len(m.tasksList.Items()) == 0:
		b.WriteString(styleMuted().Render("Loading tasks…") + "\n")
	case m.tasksState == loadLoaded && len(m.tasksList.Items()) == 0:
		if m.taskQuery.Offset > 0 {
			b.WriteString(styleMuted().Render("No tasks on this page. Press '[' to go back.") + "\n")
		} else {
			b.WriteString(styleMuted().Render("No tasks match. Press 'a' to create one.") + "\n")
		}
	default:
		b.WriteString(m.tasksList.View() + "\n")
	}

	b.WriteString("\n" + styleMuted().Render("enter/e: edit   a: add   d: delete   1/2/3: set status   s/p/o: filter+sort   [/]: page   esc: back"))
	return b.String()
}
