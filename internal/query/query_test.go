package query

import (
	"testing"

	"askbob/internal/model"
)

func TestFilterAndSortChangesResetOffset(t *testing.T) {
	q := NewTaskQuery("proj-1", 20)
	q.NextPage()
	q.NextPage()
	if q.Offset != 40 {
		t.Fatalf("offset after paging: %d", q.Offset)
	}

	q.SetStatusFilter(model.StatusDone)
	if q.Offset != 0 {
		t.Fatalf("offset after status filter change: %d", q.Offset)
	}

	q.NextPage()
	q.SetPriorityFilter(model.PriorityHigh)
	if q.Offset != 0 {
		t.Fatalf("offset after priority filter change: %d", q.Offset)
	}

	q.NextPage()
	q.SetSort(model.SortDueAsc)
	if q.Offset != 0 {
		t.Fatalf("offset after sort change: %d", q.Offset)
	}
}

func TestPrevPageClampsAtZero(t *testing.T) {
	q := NewTaskQuery("proj-1", 20)
	q.PrevPage()
	if q.Offset != 0 {
		t.Fatalf("offset went negative: %d", q.Offset)
	}
	q.NextPage()
	q.PrevPage()
	if q.Offset != 0 {
		t.Fatalf("offset after round trip: %d", q.Offset)
	}
	if q.Page() != 1 {
		t.Fatalf("page: %d", q.Page())
	}
}

func TestValues_OmitsEmptyFilters(t *testing.T) {
	q := NewTaskQuery("proj-7", 10)
	v := q.Values()
	if v.Get("project_id") != "proj-7" {
		t.Fatalf("project_id: %q", v.Get("project_id"))
	}
	if v.Get("sort") != "-created_at" {
		t.Fatalf("sort: %q", v.Get("sort"))
	}
	if v.Get("limit") != "10" || v.Get("offset") != "0" {
		t.Fatalf("paging: limit=%q offset=%q", v.Get("limit"), v.Get("offset"))
	}
	if _, ok := v["status_filter"]; ok {
		t.Fatalf("empty status_filter should be omitted")
	}
	if _, ok := v["priority_filter"]; ok {
		t.Fatalf("empty priority_filter should be omitted")
	}

	q.SetStatusFilter(model.StatusInProgress)
	q.SetPriorityFilter(model.PriorityLow)
	v = q.Values()
	if v.Get("status_filter") != "in_progress" || v.Get("priority_filter") != "low" {
		t.Fatalf("filters: %v", v)
	}
}
