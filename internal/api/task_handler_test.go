package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/mocks"
)

func newTaskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/tasks", h.Create)
	r.Get("/tasks", h.List)
	r.Get("/tasks/{id}", h.Get)
	r.Patch("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)
	return r
}

func seedTask(t *testing.T, store *mocks.MockTaskStore, ownerID uuid.UUID, description string, completed bool, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, description, completed)
	require.NoError(t, err)
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	store.AddTask(task)
	return task
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("creates task owned by the caller", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		h := NewTaskHandler(taskStore)

		body := bytes.NewBufferString(`{"description":"buy milk"}`)
		req := authedRequest(http.MethodPost, "/tasks", body, user, "session-token")
		rec := httptest.NewRecorder()
		newTaskRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.Owner)
		assert.Equal(t, "buy milk", resp.Description)
		assert.False(t, resp.Completed)
	})

	t.Run("rejects missing description", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		h := NewTaskHandler(mocks.NewMockTaskStore())

		body := bytes.NewBufferString(`{"completed":true}`)
		req := authedRequest(http.MethodPost, "/tasks", body, user, "session-token")
		rec := httptest.NewRecorder()
		newTaskRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		h := NewTaskHandler(mocks.NewMockTaskStore())

		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewBufferString(`{"description":"x"}`))
		rec := httptest.NewRecorder()
		newTaskRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*domain.User, *mocks.MockTaskStore, http.Handler) {
		t.Helper()
		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		seedTask(t, taskStore, user.ID, "oldest done", true, base)
		seedTask(t, taskStore, user.ID, "newest done", true, base.Add(2*time.Hour))
		seedTask(t, taskStore, user.ID, "pending", false, base.Add(time.Hour))
		seedTask(t, taskStore, uuid.New(), "someone else's", true, base)
		return user, taskStore, newTaskRouter(NewTaskHandler(taskStore))
	}

	t.Run("returns only the caller's tasks", func(t *testing.T) {
		t.Parallel()
		user, _, router := setup(t)

		req := authedRequest(http.MethodGet, "/tasks", nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 3)
		for _, task := range resp {
			assert.Equal(t, user.ID, task.Owner)
		}
	})

	t.Run("filter sort and paginate combine", func(t *testing.T) {
		t.Parallel()
		user, _, router := setup(t)

		req := authedRequest(http.MethodGet,
			"/tasks?completed=true&sortBy=createdAt:desc&limit=1&skip=0",
			nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "newest done", resp[0].Description)
		assert.True(t, resp[0].Completed)
	})

	t.Run("completed filter excludes pending", func(t *testing.T) {
		t.Parallel()
		user, _, router := setup(t)

		req := authedRequest(http.MethodGet, "/tasks?completed=false", nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "pending", resp[0].Description)
	})

	t.Run("empty result is an array not null", func(t *testing.T) {
		t.Parallel()
		taskStore := mocks.NewMockTaskStore()
		router := newTaskRouter(NewTaskHandler(taskStore))

		req := authedRequest(http.MethodGet, "/tasks", nil, testUser(), "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("bad query parameter is a validation error", func(t *testing.T) {
		t.Parallel()
		user, _, router := setup(t)

		req := authedRequest(http.MethodGet, "/tasks?sortBy=priority:asc", nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTask(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns own task", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, user.ID, "buy milk", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		req := authedRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
	})

	t.Run("someone else's task reads as missing", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, uuid.New(), "not yours", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		req := authedRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id reads as missing", func(t *testing.T) {
		t.Parallel()

		router := newTaskRouter(NewTaskHandler(mocks.NewMockTaskStore()))

		req := authedRequest(http.MethodGet, "/tasks/not-a-uuid", nil, testUser(), "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("updates allow-listed fields", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, user.ID, "buy milk", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		body := bytes.NewBufferString(`{"description":"buy oat milk","completed":true}`)
		req := authedRequest(http.MethodPatch, "/tasks/"+task.ID.String(), body, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "buy oat milk", resp.Description)
		assert.True(t, resp.Completed)
	})

	t.Run("rejects fields outside the allow-list", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, user.ID, "buy milk", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		body := bytes.NewBufferString(`{"owner":"` + uuid.NewString() + `"}`)
		req := authedRequest(http.MethodPatch, "/tasks/"+task.ID.String(), body, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid task updates!")
		assert.Equal(t, user.ID, task.OwnerID)
	})

	t.Run("someone else's task reads as missing", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, uuid.New(), "not yours", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		body := bytes.NewBufferString(`{"completed":true}`)
		req := authedRequest(http.MethodPatch, "/tasks/"+task.ID.String(), body, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, task.Completed)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("removes own task and returns it", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, user.ID, "buy milk", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		req := authedRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
		assert.Empty(t, taskStore.Tasks)
	})

	t.Run("someone else's task reads as missing", func(t *testing.T) {
		t.Parallel()

		user := testUser()
		taskStore := mocks.NewMockTaskStore()
		task := seedTask(t, taskStore, uuid.New(), "not yours", false, base)
		router := newTaskRouter(NewTaskHandler(taskStore))

		req := authedRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil, user, "session-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Len(t, taskStore.Tasks, 1)
	})
}
