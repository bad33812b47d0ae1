package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/asmamir/task-manager-api/internal/api/shared"
	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/store"
)

// taskUpdateAllowList is the set of fields a task update may touch.
var taskUpdateAllowList = map[string]bool{
	"description": true,
	"completed":   true,
}

// TaskHandler handles task-related API requests. Every operation is
// scoped to the authenticated owner; a task belonging to someone else
// is indistinguishable from a missing one.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
	}
}

// Create handles POST /tasks. The owner is always the authenticated
// caller; any owner value in the request body is ignored by design.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := domain.NewTask(user.ID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks with the optional completed, limit, skip, and
// sortBy=field:direction query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	opts, err := parseTaskListQuery(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskStore.ListByOwner(r.Context(), user.ID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponses(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByOwnerAndID(r.Context(), user.ID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. Only the allow-listed fields
// {description, completed} may appear in the body.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	fields, err := shared.DecodeJSONFields(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	for name := range fields {
		if !taskUpdateAllowList[name] {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task updates!")
			return
		}
	}

	task, err := h.taskStore.GetByOwnerAndID(r.Context(), user.ID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	if err := applyTaskUpdates(task, fields); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}, responding with the removed task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByOwnerAndID(r.Context(), user.ID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	if err := h.taskStore.DeleteByOwnerAndID(r.Context(), user.ID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// requireUser extracts the authenticated user from the context,
// responding 401 when absent.
func (h *TaskHandler) requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return nil, false
	}
	return user, true
}

// taskID parses the task ID path parameter. A malformed ID reads the
// same as a missing task.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return uuid.Nil, false
	}
	return id, true
}

// applyTaskUpdates copies the submitted allow-listed fields onto the
// task entity. A type mismatch in any field is a validation error.
func applyTaskUpdates(task *domain.Task, fields map[string]json.RawMessage) error {
	if raw, ok := fields["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			return domain.NewValidationError("description", "must be a string", domain.ErrValidation)
		}
		task.Description = strings.TrimSpace(description)
	}
	if raw, ok := fields["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err != nil {
			return domain.NewValidationError("completed", "must be a boolean", domain.ErrValidation)
		}
		task.Completed = completed
	}
	return task.Validate()
}
