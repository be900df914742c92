package handlers

import (
	"tasklist_backend/internal/repository"
	"tasklist_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler carries the stores and the token service. Stores are
// interfaces so tests can swap in an in-memory substitute.
type Handler struct {
	Users  repository.UserStore
	Tasks  repository.TaskStore
	Tokens *service.TokenService
}

func NewHandler(db *pgxpool.Pool, tokens *service.TokenService) *Handler {
	return &Handler{
		Users:  repository.NewUserRepository(db),
		Tasks:  repository.NewTaskRepository(db),
		Tokens: tokens,
	}
}

// getUserID pulls the authenticated user id set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
