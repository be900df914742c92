package domain

import "time"

type Task struct {
    ID        int64     `db:"id" json:"id"`
    OwnerID   int64     `db:"user_id" json:"owner"`
    Title     string    `db:"title" json:"title"`
    Completed bool      `db:"completed" json:"completed"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}
