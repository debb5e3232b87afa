package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"askbob/internal/model"
)

type projectItem struct {
	project model.Project
}

func (i projectItem) FilterValue() string { return i.project.Name }
func (i projectItem) Title() string {
	name := strings.TrimSpace(i.project.Name)
	if name == "" {
		return "(unnamed project)"
	}
	return name
}
func (i projectItem) Description() string {
	if strings.TrimSpace(i.project.Description) == "" {
		return "(no description)"
	}
	return i.project.Description
}

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

// taskMeta is the secondary text rendered right-aligned on a task row:
// status, assignee, priority, due date.
func (i taskItem) taskMeta() string {
	parts := []string{i.task.Status.Label()}
	if i.task.Assignee != "" {
		parts = append(parts, "@"+i.task.Assignee)
	}
	if i.task.Priority != "" {
		parts = append(parts, string(i.task.Priority))
	}
	if i.task.DueDate != nil {
		parts = append(parts, "due "+i.task.DueDate.Format("2006-01-02"))
	}
	return strings.Join(parts, " · ")
}

func newList(items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	// We render our own header, error line and footer, so keep list chrome
	// minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func newProjectsList() list.Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(colorAccent).BorderForeground(colorAccent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(colorMuted).BorderForeground(colorAccent)
	return newList([]list.Item{}, d)
}

func newTasksList() list.Model {
	return newList([]list.Item{}, newTaskRowDelegate())
}
