package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"askbob/internal/model"
)

// taskRowDelegate renders one task per line: title left, metadata right.
type taskRowDelegate struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	muted      lipgloss.Style
	done       lipgloss.Style
	inProgress lipgloss.Style
}

func newTaskRowDelegate() taskRowDelegate {
	return taskRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		muted:      lipgloss.NewStyle().Foreground(colorMuted),
		done:       lipgloss.NewStyle().Foreground(colorDone),
		inProgress: lipgloss.NewStyle().Foreground(colorInProgress),
	}
}

func (d taskRowDelegate) Height() int  { return 1 }
func (d taskRowDelegate) Spacing() int { return 0 }
func (d taskRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(taskItem)
	if !ok {
		return
	}

	title := strings.TrimSpace(it.task.Title)
	if title == "" {
		title = "(untitled)"
	}
	left := glyphFor(it.task.Status) + " " + title

	right := it.taskMeta()

	selected := index == m.Index()
	if selected {
		line := left
		if right != "" {
			line += "  " + right
		}
		line = padOrTruncate(line, contentW)
		fmt.Fprint(w, d.selected.Render(line))
		return
	}

	// Unselected rows keep the metadata muted and right-aligned when room
	// allows.
	leftW := xansi.StringWidth(left)
	rightW := xansi.StringWidth(right)
	if right != "" && leftW+rightW+2 <= contentW {
		gap := contentW - leftW - rightW
		fmt.Fprint(w, d.statusStyle(it.task.Status).Render(left)+strings.Repeat(" ", gap)+d.muted.Render(right))
		return
	}
	fmt.Fprint(w, d.statusStyle(it.task.Status).Render(padOrTruncate(left, contentW)))
}

func (d taskRowDelegate) statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusDone:
		return d.done
	case model.StatusInProgress:
		return d.inProgress
	}
	return d.normal
}

func glyphFor(s model.Status) string {
	switch s {
	case model.StatusDone:
		return "[x]"
	case model.StatusInProgress:
		return "[~]"
	}
	return "[ ]"
}

func padOrTruncate(s string, width int) string {
	w := xansi.StringWidth(s)
	if w > width {
		if width <= 1 {
			return xansi.Cut(s, 0, 1)
		}
		return xansi.Cut(s, 0, width-1) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}
