package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/cotowork/userservice/internal/platform/httpx"
	"github.com/cotowork/userservice/internal/shared"
	"github.com/cotowork/userservice/internal/token"
)

// Handler wires the HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	loginRate int
}

// NewHandler constructs a Handler. loginRate bounds login/refresh attempts
// per IP per minute.
func NewHandler(logger *slog.Logger, service *Service, loginRate int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if loginRate <= 0 {
		loginRate = 10
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		loginRate: loginRate,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		// Credential-guessing endpoints get a tighter per-IP budget than
		// the global limiter.
		r.Use(httprate.Limit(h.loginRate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", h.handleLogin)
		r.Post("/refresh", h.handleRefresh)
	})
	r.Post("/validate", h.handleValidateBody)
	r.Get("/validate", h.handleValidateHeader)
	r.Post("/logout", h.handleLogout)
	r.Get("/health", h.handleHealth)
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type validateRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body", shared.CodeValidationFailed)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		// Field detail would reveal password policy to probes; keep it flat.
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "username and password are required", shared.CodeValidationFailed)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body", shared.CodeValidationFailed)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "refreshToken is required", shared.CodeValidationFailed)
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleValidateBody(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusUnauthorized, &Introspection{Valid: false, ErrorMessage: "malformed request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.JSON(w, http.StatusUnauthorized, &Introspection{Valid: false, ErrorMessage: "token is required"})
		return
	}
	h.respondIntrospection(w, h.service.Introspect(r.Context(), req.Token))
}

func (h *Handler) handleValidateHeader(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		httpx.JSON(w, http.StatusUnauthorized, &Introspection{Valid: false, ErrorMessage: "no authorization header provided"})
		return
	}
	h.respondIntrospection(w, h.service.Introspect(r.Context(), header))
}

func (h *Handler) respondIntrospection(w http.ResponseWriter, result *Introspection) {
	if result.Valid {
		httpx.JSON(w, http.StatusOK, result)
		return
	}
	httpx.JSON(w, http.StatusUnauthorized, result)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if header := r.Header.Get("Authorization"); header != "" {
		h.service.Logout(r.Context(), header)
	}
	// Stateless discard: always succeeds.
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondAuthError keeps every terminal auth failure at 401 with a safe
// diagnostic code; expired is the one case distinguished for clients.
func (h *Handler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrExpired):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "token expired", shared.CodeTokenExpired)
	case errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrSignatureMismatch),
		errors.Is(err, token.ErrKindMismatch),
		errors.Is(err, token.ErrInvalidClaims):
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token", shared.CodeTokenInvalid)
	default:
		httpx.RespondError(w, err)
	}
}
