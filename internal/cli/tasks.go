package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"askbob/internal/api"
	"askbob/internal/model"
	"askbob/internal/query"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksStatusCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func parseStatus(s string) (model.Status, error) {
	if s == "" {
		return "", nil
	}
	st := model.Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (todo|in_progress|done)", s)
	}
	return st, nil
}

func parsePriority(s string) (model.Priority, error) {
	if s == "" {
		return "", nil
	}
	p := model.Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (low|medium|high)", s)
	}
	return p, nil
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID, status, priority, sort string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.load()
			if err != nil {
				return writeErr(cmd, err)
			}

			st, err := parseStatus(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			pr, err := parsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}

			if limit <= 0 {
				limit = e.cfg.PageSize
			}
			q := query.NewTaskQuery(projectID, limit)
			q.StatusFilter = st
			q.PriorityFilter = pr
			if sort != "" {
				q.Sort = model.SortKey(sort)
			}
			q.Offset = offset

			tasks, err := e.client.ListTasks(cmd.Context(), q)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": tasks,
				"meta": map[string]any{"limit": q.Limit, "offset": q.Offset, "page": q.Page()},
			})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (todo|in_progress|done)")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority (low|medium|high)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort key, '-' prefix for descending (default -created_at)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (default from config)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Result offset")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var projectID, title, status, assignee string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.load()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := parseStatus(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			if st == "" {
				st = model.StatusTodo
			}
			t, err := e.client.CreateTask(cmd.Context(), api.TaskCreate{
				Title:     strings.TrimSpace(title),
				Status:    st,
				Assignee:  strings.TrimSpace(assignee),
				ProjectID: projectID,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default todo)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee (optional)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title, status, assignee string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.load()
			if err != nil {
				return writeErr(cmd, err)
			}

			var patch api.TaskPatch
			if cmd.Flags().Changed("title") {
				v := strings.TrimSpace(title)
				patch.Title = &v
			}
			if cmd.Flags().Changed("status") {
				st, err := parseStatus(status)
				if err != nil || st == "" {
					return writeErr(cmd, fmt.Errorf("invalid status %q (todo|in_progress|done)", status))
				}
				patch.Status = &st
			}
			if cmd.Flags().Changed("assignee") {
				v := strings.TrimSpace(assignee)
				patch.Assignee = &v
			}

			t, err := e.client.UpdateTask(cmd.Context(), args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&status, "status", "", "New status (todo|in_progress|done)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "New assignee (empty clears)")
	return cmd
}

func newTasksStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <todo|in_progress|done>",
		Short: "Set a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.load()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := parseStatus(args[1])
			if err != nil || st == "" {
				return writeErr(cmd, fmt.Errorf("invalid status %q (todo|in_progress|done)", args[1]))
			}
			if err := e.client.SetTaskStatus(cmd.Context(), args[0], st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "status": st}})
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.load()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := e.client.DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
}
