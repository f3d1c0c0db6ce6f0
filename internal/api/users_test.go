package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/persistorai/socialgraph/internal/api"
	"github.com/persistorai/socialgraph/internal/models"
)

func storeDown() error {
	return errors.Join(models.ErrStoreRead, errors.New("connection refused"))
}

func TestUserCreate_Valid(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		createFn: func(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
			return &models.User{Username: req.Username, CreatedAt: time.Now()}, nil
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.POST("/users", h.Create)

	w := doRequest(r, http.MethodPost, "/users", `{"username":"alice"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("expected username 'alice', got %q", user.Username)
	}
}

func TestUserCreate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed json", `{"username":`, api.ErrCodeInvalidRequest},
		{"missing username", `{}`, api.ErrCodeValidationError},
		{"padded username", `{"username":" alice"}`, api.ErrCodeValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter()
			h := api.NewUserHandler(&mockUserService{}, testLogger())
			r.POST("/users", h.Create)

			decodeError(t, doRequest(r, http.MethodPost, "/users", tt.body), http.StatusBadRequest, tt.code)
		})
	}
}

func TestUserCreate_Duplicate(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		createFn: func(_ context.Context, _ models.CreateUserRequest) (*models.User, error) {
			return nil, models.ErrDuplicateKey
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.POST("/users", h.Create)

	decodeError(t, doRequest(r, http.MethodPost, "/users", `{"username":"alice"}`), http.StatusConflict, api.ErrCodeConflict)
}

func TestUserGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		getFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, fmt.Errorf("getting user: %w", models.ErrUserNotFound)
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.GET("/users/:username", h.Get)

	decodeError(t, doRequest(r, http.MethodGet, "/users/ghost", ""), http.StatusNotFound, api.ErrCodeNotFound)
}

func TestUserList_StoreUnavailable(t *testing.T) {
	t.Parallel()

	svc := &mockUserService{
		listFn: func(_ context.Context, _, _ int) ([]models.User, bool, error) {
			return nil, false, storeDown()
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.GET("/users", h.List)

	decodeError(t, doRequest(r, http.MethodGet, "/users", ""), http.StatusServiceUnavailable, api.ErrCodeStoreUnavailable)
}

func TestUserList_Pagination(t *testing.T) {
	t.Parallel()

	var gotLimit, gotOffset int
	svc := &mockUserService{
		listFn: func(_ context.Context, limit, offset int) ([]models.User, bool, error) {
			gotLimit, gotOffset = limit, offset
			return nil, true, nil
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.GET("/users", h.List)

	w := doRequest(r, http.MethodGet, "/users?limit=5000&offset=10", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if gotLimit != 1000 || gotOffset != 10 {
		t.Errorf("limit/offset = %d/%d, want 1000/10", gotLimit, gotOffset)
	}

	var body struct {
		Users   []models.User `json:"users"`
		HasMore bool          `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if body.Users == nil || !body.HasMore {
		t.Errorf("body = %+v, want empty users and has_more", body)
	}
}

func TestUserDelete_NoContent(t *testing.T) {
	t.Parallel()

	var deleted string
	svc := &mockUserService{
		deleteFn: func(_ context.Context, username string) error {
			deleted = username
			return nil
		},
	}

	r := newTestRouter()
	h := api.NewUserHandler(svc, testLogger())
	r.DELETE("/users/:username", h.Delete)

	w := doRequest(r, http.MethodDelete, "/users/bob", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	if deleted != "bob" {
		t.Errorf("deleted %q, want bob", deleted)
	}
}
