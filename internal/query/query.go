// Package query holds the task-list query state (filters, sort, paging).
package query

import (
	"net/url"
	"strconv"

	"askbob/internal/model"
)

// TaskQuery is the transient query state of one task list. Changing any
// filter or the sort resets Offset to 0: the new result set may have fewer
// pages, and a stale offset would show an empty page.
type TaskQuery struct {
	ProjectID      string
	StatusFilter   model.Status   // empty = all
	PriorityFilter model.Priority // empty = all
	Sort           model.SortKey
	Limit          int
	Offset         int
}

// NewTaskQuery returns the default query for a project: newest first, first
// page.
func NewTaskQuery(projectID string, limit int) TaskQuery {
	return TaskQuery{
		ProjectID: projectID,
		Sort:      model.SortCreatedDesc,
		Limit:     limit,
	}
}

func (q *TaskQuery) SetStatusFilter(s model.Status) {
	q.StatusFilter = s
	q.Offset = 0
}

func (q *TaskQuery) SetPriorityFilter(p model.Priority) {
	q.PriorityFilter = p
	q.Offset = 0
}

func (q *TaskQuery) SetSort(k model.SortKey) {
	q.Sort = k
	q.Offset = 0
}

func (q *TaskQuery) NextPage() {
	q.Offset += q.Limit
}

func (q *TaskQuery) PrevPage() {
	q.Offset -= q.Limit
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// Page is the 1-based page number implied by Offset/Limit.
func (q TaskQuery) Page() int {
	if q.Limit <= 0 {
		return 1
	}
	return q.Offset/q.Limit + 1
}

// Values renders the query as URL parameters. Filters are omitted when
// empty; project_id, sort, limit and offset are always sent.
func (q TaskQuery) Values() url.Values {
	v := url.Values{}
	v.Set("project_id", q.ProjectID)
	v.Set("sort", string(q.Sort))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.StatusFilter != "" {
		v.Set("status_filter", string(q.StatusFilter))
	}
	if q.PriorityFilter != "" {
		v.Set("priority_filter", string(q.PriorityFilter))
	}
	return v
}
