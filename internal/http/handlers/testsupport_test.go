package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"tasklist_backend/internal/domain"
	"tasklist_backend/internal/http/middleware"
	"tasklist_backend/internal/repository"
	"tasklist_backend/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// In-memory stores implementing the repository interfaces, so the
// handlers and middleware run end-to-end without Postgres.

type memTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{nextID: 1, tasks: make(map[int64]domain.Task)}
}

func (s *memTaskStore) ListForUser(_ context.Context, ownerID int64) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []domain.Task
	for _, t := range s.tasks {
		if t.OwnerID == ownerID {
			res = append(res, t)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *memTaskStore) CreateForUser(_ context.Context, ownerID int64, title string, completed bool) (*domain.Task, error) {
	if title == "" {
		return nil, repository.ErrTitleRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := domain.Task{
		ID:        s.nextID,
		OwnerID:   ownerID,
		Title:     title,
		Completed: completed,
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.tasks[t.ID] = t
	return &t, nil
}

func (s *memTaskStore) GetForUser(_ context.Context, ownerID, id int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *memTaskStore) UpdateForUser(_ context.Context, ownerID, id int64, upd repository.TaskUpdate) (*domain.Task, error) {
	if upd.Title != nil && *upd.Title == "" {
		return nil, repository.ErrTitleRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	s.tasks[id] = t
	return &t, nil
}

func (s *memTaskStore) DeleteForUser(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[string]domain.User)}
}

func (s *memUserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return repository.ErrUserExists
	}
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()
	s.nextID++
	s.users[u.Username] = *u
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// addUser seeds a user with a bcrypt-hashed password and returns its id.
func (s *memUserStore) addUser(t *testing.T, username, password string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{Username: username, PasswordHash: string(hash)}
	if err := s.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

type testEnv struct {
	router *gin.Engine
	tokens *service.TokenService
	tasks  *memTaskStore
	users  *memUserStore
}

// newTestEnv wires the real handlers and JWT middleware over in-memory
// stores, mirroring the production route table.
func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	tokens := service.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	env := &testEnv{
		tokens: tokens,
		tasks:  newMemTaskStore(),
		users:  newMemUserStore(),
	}

	h := &Handler{Users: env.users, Tasks: env.tasks, Tokens: tokens}

	r := gin.New()
	tasks := r.Group("/tasks")
	tasks.POST("/register", h.Register)
	tasks.POST("/token", h.Token)
	tasks.POST("/token/refresh", h.Refresh)

	auth := middleware.JWT(tokens)
	tasks.GET("", auth, h.ListTasks)
	tasks.POST("", auth, h.CreateTask)
	tasks.GET("/:id", auth, h.GetTask)
	tasks.PUT("/:id", auth, h.UpdateTask)
	tasks.PATCH("/:id", auth, h.UpdateTask)
	tasks.DELETE("/:id", auth, h.DeleteTask)

	env.router = r
	return env
}

// accessFor issues a real access token for the given user id.
func (e *testEnv) accessFor(t *testing.T, userID int64) string {
	t.Helper()
	pair, err := e.tokens.GeneratePair(userID)
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}
	return pair.Access
}

// do runs one request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
