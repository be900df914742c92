package repository

import (
	"context"
	"errors"
	"strings"

	"tasklist_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskUpdate carries the mutable task fields; nil means "leave unchanged".
// Owner and creation time are not here on purpose.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

// TaskStore is the owner-scoped task collection. Every by-id operation
// filters on id AND owner in a single statement, so a task belonging to
// another user reads as nonexistent.
type TaskStore interface {
	ListForUser(ctx context.Context, ownerID int64) ([]domain.Task, error)
	CreateForUser(ctx context.Context, ownerID int64, title string, completed bool) (*domain.Task, error)
	GetForUser(ctx context.Context, ownerID, id int64) (*domain.Task, error)
	UpdateForUser(ctx context.Context, ownerID, id int64, upd TaskUpdate) (*domain.Task, error)
	DeleteForUser(ctx context.Context, ownerID, id int64) error
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListForUser(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, completed, created_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) CreateForUser(ctx context.Context, ownerID int64, title string, completed bool) (*domain.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}

	t := domain.Task{OwnerID: ownerID, Title: title, Completed: completed}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, completed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		ownerID, title, completed,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) GetForUser(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, completed, created_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Completed, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) UpdateForUser(ctx context.Context, ownerID, id int64, upd TaskUpdate) (*domain.Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleRequired
	}

	var t domain.Task
	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title), completed = COALESCE($4, completed)
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, title, completed, created_at`,
		id, ownerID, upd.Title, upd.Completed,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Completed, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) DeleteForUser(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
