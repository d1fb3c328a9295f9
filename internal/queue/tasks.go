package queue

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentos-io/agentos/pkg/models"
)

// ErrTaskNotFound indicates a lookup for a task id that does not exist.
var ErrTaskNotFound = errors.New("task not found")

// ErrNotActive indicates a completion attempt on a task that is not in
// the active state. Completion is only valid after a claim.
var ErrNotActive = errors.New("task is not active")

// ErrNoPendingTasks indicates a claim found no eligible pending task.
var ErrNoPendingTasks = errors.New("no pending tasks")

// ErrNotClaimable indicates a targeted claim on a task that is not
// pending (already claimed, or finished).
var ErrNotClaimable = errors.New("task is not claimable")

// NewTaskID generates a short task identifier.
func NewTaskID() string {
	return uuid.NewString()[:8]
}

// Enqueue inserts a new pending task and returns it with its generated
// fields filled in. Title and assignee are required; priority defaults
// to MEDIUM and task type to general.
func (s *Store) Enqueue(t models.Task) (models.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Task{}, fmt.Errorf("enqueue: title is required")
	}
	if strings.TrimSpace(t.AssignedTo) == "" {
		return models.Task{}, fmt.Errorf("enqueue: assignee is required")
	}
	if t.ID == "" {
		t.ID = NewTaskID()
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !t.Priority.Valid() {
		return models.Task{}, fmt.Errorf("enqueue: invalid priority %q", t.Priority)
	}
	if t.TaskType == "" {
		t.TaskType = models.TaskTypeGeneral
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Status = models.TaskStatusPending

	_, err := s.Exec(`
		INSERT INTO tasks (id, created_at, assigned_to, assigned_by, task_type, priority, status, title, description, project)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, formatTime(t.CreatedAt), t.AssignedTo, t.AssignedBy, t.TaskType,
		string(t.Priority), string(t.Status), t.Title, t.Description, t.Project)
	if err != nil {
		return models.Task{}, fmt.Errorf("enqueue task: %w", err)
	}
	return t, nil
}

// priorityOrder ranks priorities for claim ordering; lower claims first.
const priorityOrder = `CASE priority
	WHEN 'CRITICAL' THEN 0
	WHEN 'HIGH' THEN 1
	WHEN 'MEDIUM' THEN 2
	WHEN 'LOW' THEN 3
	ELSE 4 END`

// ClaimNext atomically claims the highest-priority, oldest pending task
// for the given agent, marking it active and stamping started_at. The
// claim is a conditional update guarded on the pending status, so two
// concurrent claimers can never both receive the same task. Project
// narrows the claim when non-empty. Returns ErrNoPendingTasks when the
// queue has nothing eligible.
func (s *Store) ClaimNext(agent, project string) (*models.Task, error) {
	var claimed *models.Task

	err := s.Transaction(func(tx *sql.Tx) error {
		for {
			query := `
				SELECT id FROM tasks
				WHERE status = 'pending' AND assigned_to = ?`
			args := []any{agent}
			if project != "" {
				query += " AND project = ?"
				args = append(args, project)
			}
			query += " ORDER BY " + priorityOrder + ", created_at ASC LIMIT 1"

			var id string
			if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNoPendingTasks
				}
				return fmt.Errorf("select pending task: %w", err)
			}

			now := time.Now().UTC()
			res, err := tx.Exec(`
				UPDATE tasks SET status = 'active', started_at = ?
				WHERE id = ? AND status = 'pending'
			`, formatTime(now), id)
			if err != nil {
				return fmt.Errorf("claim task %s: %w", id, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("claim task %s: %w", id, err)
			}
			if n == 0 {
				// Lost the race for this candidate; pick the next one.
				continue
			}

			t, err := getTask(tx, id)
			if err != nil {
				return err
			}
			claimed = t
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Claim atomically claims one specific pending task by id, marking it
// active and stamping started_at. Used by the dispatch pipeline, which
// materializes subtasks and then executes them itself. Returns
// ErrNotClaimable if the task exists but is not pending.
func (s *Store) Claim(id string) (*models.Task, error) {
	var claimed *models.Task

	err := s.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE tasks SET status = 'active', started_at = ?
			WHERE id = ? AND status = 'pending'
		`, formatTime(time.Now().UTC()), id)
		if err != nil {
			return fmt.Errorf("claim task %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("claim task %s: %w", id, err)
		}
		if n == 0 {
			if _, err := getTask(tx, id); err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", ErrNotClaimable, id)
		}
		claimed, err = getTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Complete records the terminal outcome of an active task. The update
// is guarded on the active status; completing a task that was never
// claimed (or already finished) returns ErrNotActive.
func (s *Store) Complete(id string, status models.TaskStatus, result, modelUsed string) error {
	if !status.Valid() || !status.Terminal() {
		return fmt.Errorf("complete: %q is not a terminal status", status)
	}

	res, err := s.Exec(`
		UPDATE tasks SET status = ?, result = ?, model_used = ?, completed_at = ?
		WHERE id = ? AND status = 'active'
	`, string(status), result, modelUsed, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete task %s: %w", id, err)
	}
	if n == 0 {
		if _, err := s.Get(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrNotActive, id)
	}
	return nil
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getTask(s.conn, id)
}

// queryable abstracts *sql.DB and *sql.Tx for shared row scanning.
type queryable interface {
	QueryRow(query string, args ...any) *sql.Row
}

const taskColumns = `id, created_at, assigned_to, assigned_by, task_type, priority, status,
	title, description, project, model_used, result, started_at, completed_at`

func getTask(q queryable, id string) (*models.Task, error) {
	row := q.QueryRow("SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	var (
		t                    models.Task
		createdAt            string
		taskType, priority   string
		status               string
		description, project sql.NullString
		modelUsed, result    sql.NullString
		startedAt            sql.NullString
		completedAt          sql.NullString
	)
	err := row.Scan(&t.ID, &createdAt, &t.AssignedTo, &t.AssignedBy, &taskType, &priority,
		&status, &t.Title, &description, &project, &modelUsed, &result, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	t.TaskType = taskType
	t.Priority = models.Priority(priority)
	t.Status = models.TaskStatus(status)
	t.Description = description.String
	t.Project = project.String
	t.ModelUsed = modelUsed.String
	t.Result = result.String
	t.StartedAt = parseNullableTime(startedAt)
	t.CompletedAt = parseNullableTime(completedAt)
	return &t, nil
}

// ListFilter narrows a task listing. Zero values mean no filtering.
type ListFilter struct {
	Status  models.TaskStatus
	Agent   string
	Project string
	// Limit caps the number of rows; zero means the default of 50.
	Limit int
}

// List returns tasks matching the filter, newest first.
func (s *Store) List(f ListFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE 1=1"
	var args []any
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Agent != "" {
		query += " AND assigned_to = ?"
		args = append(args, f.Agent)
	}
	if f.Project != "" {
		query += " AND project = ?"
		args = append(args, f.Project)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Counts returns the number of tasks per status.
func (s *Store) Counts() (map[models.TaskStatus]int, error) {
	rows, err := s.Query("SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.TaskStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[models.TaskStatus(status)] = n
	}
	return counts, rows.Err()
}

// PendingFor returns the pending task count for one agent.
func (s *Store) PendingFor(agent string) (int, error) {
	var n int
	err := s.QueryRow(
		"SELECT COUNT(*) FROM tasks WHERE status = 'pending' AND assigned_to = ?", agent,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending for %s: %w", agent, err)
	}
	return n, nil
}
