package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/asmamir/task-manager-api/internal/api/shared"
	"github.com/asmamir/task-manager-api/internal/domain"
	"github.com/asmamir/task-manager-api/internal/platform/avatar"
	"github.com/asmamir/task-manager-api/internal/store"
)

// userUpdateAllowList is the set of fields a profile update may touch.
// A request containing any other field is rejected outright.
var userUpdateAllowList = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// allowedAvatarExtensions are the accepted upload filename extensions.
var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AccountManager is the slice of the account service the user handler
// depends on.
type AccountManager interface {
	Register(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Delete(ctx context.Context, user *domain.User) error
}

// UserHandler handles user-related API requests.
type UserHandler struct {
	accounts   AccountManager
	userStore  store.UserStore
	normalizer avatar.Normalizer
	validator  *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	accounts AccountManager,
	userStore store.UserStore,
	normalizer avatar.Normalizer,
) *UserHandler {
	return &UserHandler{
		accounts:   accounts,
		userStore:  userStore,
		normalizer: normalizer,
		validator:  validator.New(),
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Token: token,
		User:  NewUserResponse(user),
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token: token,
		User:  NewUserResponse(user),
	})
}

// Logout handles POST /users/logout. It revokes exactly the session
// token that authenticated this request, leaving other sessions alive.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, token, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userStore.RemoveToken(r.Context(), user.ID, token); err != nil {
		// A concurrent logout may have removed it already; the session
		// is gone either way.
		if !errors.Is(err, store.ErrTokenNotFound) {
			HandleAPIError(w, r, err, "Failed to log out")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll, revoking every session the
// user holds.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userStore.RemoveAllTokens(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// GetByID handles GET /users/{id}, the public profile lookup. A
// malformed ID reads the same as a missing user.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Update handles PATCH /users/{id}. It always acts on the caller's own
// account regardless of the path ID, and only the allow-listed fields
// {name, email, password, age} may appear in the body.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	fields, err := shared.DecodeJSONFields(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	for name := range fields {
		if !userUpdateAllowList[name] {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user updates!")
			return
		}
	}

	if err := applyUserUpdates(user, fields); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// DeleteMe handles DELETE /users/me. The account and everything it owns
// are removed; the response carries the deleted user's data.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar. The upload is a multipart
// form with an "avatar" file field, at most 1 MB, named *.jpg, *.jpeg,
// or *.png. Whatever comes in is stored as a normalized square PNG.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	// Headroom over the file cap for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadBytes+64*1024)

	file, header, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("failed to close uploaded file", "error", err)
		}
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExtensions[ext] {
		shared.RespondWithError(w, r, http.StatusBadRequest, "only image files are allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxUploadBytes+1))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(data) > avatar.MaxUploadBytes {
		shared.RespondWithError(w, r, http.StatusBadRequest, "avatar must be at most 1MB")
		return
	}

	normalized, err := h.normalizer.Normalize(data)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to process avatar")
		return
	}

	if err := h.userStore.UpdateAvatar(r.Context(), user.ID, normalized); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userStore.UpdateAvatar(r.Context(), user.ID, nil); err != nil {
		HandleAPIError(w, r, err, "Failed to remove avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetAvatar handles GET /users/{id}/avatar, the public avatar fetch.
// Responds 404 whenever the user is absent or the user has no avatar.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	data, err := h.userStore.GetAvatar(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get avatar")
		return
	}

	// Stored avatars are always normalized PNGs.
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write avatar response", "error", err)
	}
}

// requireSession extracts the authenticated user and token placed in
// the context by the auth middleware, responding 401 when absent.
func (h *UserHandler) requireSession(
	w http.ResponseWriter,
	r *http.Request,
) (*domain.User, string, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return nil, "", false
	}
	token, _ := shared.TokenFromContext(r.Context())
	return user, token, true
}

// applyUserUpdates copies the submitted allow-listed fields onto the
// user entity, normalizing as registration does. A type mismatch in any
// field is a validation error.
func applyUserUpdates(user *domain.User, fields map[string]json.RawMessage) error {
	if raw, ok := fields["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return domain.NewValidationError("name", "must be a string", domain.ErrValidation)
		}
		user.Name = strings.TrimSpace(name)
	}
	if raw, ok := fields["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil {
			return domain.NewValidationError("email", "must be a string", domain.ErrValidation)
		}
		user.Email = domain.NormalizeEmail(email)
	}
	if raw, ok := fields["password"]; ok {
		var password string
		if err := json.Unmarshal(raw, &password); err != nil {
			return domain.NewValidationError("password", "must be a string", domain.ErrValidation)
		}
		// The store re-hashes before persisting.
		user.Password = password
	}
	if raw, ok := fields["age"]; ok {
		var age int
		if err := json.Unmarshal(raw, &age); err != nil {
			return domain.NewValidationError("age", "must be an integer", domain.ErrValidation)
		}
		user.Age = age
	}
	return user.Validate()
}
