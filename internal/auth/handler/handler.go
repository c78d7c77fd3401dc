// Package handler exposes operator login, password reset and user
// management over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kyc/internal/auth/models"
	"kyc/internal/auth/service"
	kycmodels "kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/httputil"
	"kyc/pkg/requestcontext"
)

// Service is the subset of the auth service the handler calls.
type Service interface {
	CreateUser(ctx context.Context, in service.CreateUserInput) (*models.User, error)
	ActivateUser(ctx context.Context, userID id.UserID) (*models.User, error)
	DeactivateUser(ctx context.Context, userID id.UserID) (*models.User, error)
	GetUser(ctx context.Context, userID id.UserID) (*models.User, error)
	ListUsers(ctx context.Context, page kycmodels.Page) ([]*models.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email, language string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
	public  []func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithPublicMiddleware wraps the unauthenticated routes, typically with a
// rate limit.
func WithPublicMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.public = append(h.public, mw...)
	}
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: svc, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public auth routes on r and the user-management
// routes behind requireAuth.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(h.public...)
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/password-reset", h.handleRequestPasswordReset)
		r.Post("/auth/password-reset/confirm", h.handleResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/users", h.handleListUsers)
		r.Post("/users", h.handleCreateUser)
		r.Get("/users/{id}", h.handleGetUser)
		r.Post("/users/{id}/activate", h.handleActivateUser)
		r.Post("/users/{id}/deactivate", h.handleDeactivateUser)
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() { r.Email = strings.TrimSpace(r.Email) }

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	return nil
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *CreateUserRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return models.ValidatePassword(r.Password)
}

type PasswordResetRequest struct {
	Email    string `json:"email"`
	Language string `json:"language"`
}

func (r *PasswordResetRequest) Normalize() { r.Email = strings.TrimSpace(r.Email) }

func (r *PasswordResetRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Normalize() { r.Token = strings.TrimSpace(r.Token) }

func (r *ResetPasswordRequest) Validate() error {
	if r.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	return models.ValidatePassword(r.Password)
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(ctx, w, "login failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        toUserResponse(res.User),
	})
}

func (h *Handler) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[PasswordResetRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.RequestPasswordReset(ctx, req.Email, req.Language); err != nil {
		h.writeError(ctx, w, "password reset request failed", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ResetPasswordRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.ResetPassword(ctx, req.Token, req.Password); err != nil {
		h.writeError(ctx, w, "password reset failed", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateUserRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	u, err := h.service.CreateUser(ctx, service.CreateUserInput{
		Name: req.Name, Surname: req.Surname, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		h.writeError(ctx, w, "create user failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	skip, limit, err := httputil.ParsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	users, err := h.service.ListUsers(ctx, kycmodels.Page{Skip: skip, Limit: limit})
	if err != nil {
		h.writeError(ctx, w, "list users failed", err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := h.service.GetUser(ctx, userID)
	if err != nil {
		h.writeError(ctx, w, "get user failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) handleActivateUser(w http.ResponseWriter, r *http.Request) {
	h.setValidity(w, r, "activate user failed", h.service.ActivateUser)
}

func (h *Handler) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setValidity(w, r, "deactivate user failed", h.service.DeactivateUser)
}

func (h *Handler) setValidity(w http.ResponseWriter, r *http.Request, failure string, apply func(context.Context, id.UserID) (*models.User, error)) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := apply(ctx, userID)
	if err != nil {
		h.writeError(ctx, w, failure, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
	httputil.WriteError(w, err)
}
