package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tasklist_backend/internal/domain"
	"tasklist_backend/internal/http/middleware"
	"tasklist_backend/internal/logger"
	"tasklist_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// Request bodies deliberately carry only the mutable fields; any
// client-supplied id, owner or created_at never reaches the store.
type createTaskRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type updateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// taskID parses the :id route param. A non-numeric id is treated the
// same as an unknown one, so the 404 surface stays uniform.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	tasks, err := h.Tasks.ListForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("list tasks failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req createTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	task, err := h.Tasks.CreateForUser(c.Request.Context(), userID, req.Title, req.Completed)
	if err != nil {
		if errors.Is(err, repository.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required", "field": "title"})
			return
		}
		logger.Error("create task failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	middleware.TasksCreated.Inc()
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		logger.Error("get task failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask serves both PUT and PATCH; omitted fields stay untouched,
// owner and created_at always do.
func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	upd := repository.TaskUpdate{Title: req.Title, Completed: req.Completed}
	task, err := h.Tasks.UpdateForUser(c.Request.Context(), userID, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, repository.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required", "field": "title"})
		default:
			logger.Error("update task failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.Tasks.DeleteForUser(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		logger.Error("delete task failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}
	c.Status(http.StatusNoContent)
}
