package queue

import (
	"fmt"
	"strings"
	"time"
)

// Dispatch is one audit record of a directive fan-out: the directive
// text, the plan summary, and the queue ids of the tasks it produced.
type Dispatch struct {
	ID           int64
	DispatchedAt time.Time
	Directive    string
	Project      string
	PlanSummary  string
	TaskIDs      []string
	SubtaskCount int
}

// RecordDispatch appends a dispatch audit record.
func (s *Store) RecordDispatch(d Dispatch) (int64, error) {
	if d.DispatchedAt.IsZero() {
		d.DispatchedAt = time.Now().UTC()
	}
	res, err := s.Exec(`
		INSERT INTO dispatches (dispatched_at, directive, project, plan_summary, task_ids, subtask_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, formatTime(d.DispatchedAt), d.Directive, d.Project, d.PlanSummary,
		strings.Join(d.TaskIDs, ","), d.SubtaskCount)
	if err != nil {
		return 0, fmt.Errorf("record dispatch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record dispatch: %w", err)
	}
	return id, nil
}

// ListDispatches returns dispatch records, newest first. Project narrows
// the listing when non-empty; limit <= 0 means the default of 20.
func (s *Store) ListDispatches(project string, limit int) ([]Dispatch, error) {
	query := `
		SELECT id, dispatched_at, directive, project, plan_summary, task_ids, subtask_count
		FROM dispatches WHERE 1=1`
	var args []any
	if project != "" {
		query += " AND project = ?"
		args = append(args, project)
	}
	if limit <= 0 {
		limit = 20
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dispatches: %w", err)
	}
	defer rows.Close()

	var out []Dispatch
	for rows.Next() {
		var (
			d            Dispatch
			dispatchedAt string
			taskIDs      string
		)
		if err := rows.Scan(&d.ID, &dispatchedAt, &d.Directive, &d.Project,
			&d.PlanSummary, &taskIDs, &d.SubtaskCount); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		d.DispatchedAt, err = parseTime(dispatchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse dispatched_at: %w", err)
		}
		if taskIDs != "" {
			d.TaskIDs = strings.Split(taskIDs, ",")
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
