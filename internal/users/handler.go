package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/platform/httpx"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
)

// Handler wires the user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	// Self-profile endpoints only require a valid token.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/me", h.handleProfile)
		r.Put("/me", h.handleUpdateProfile)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUserRead))
		r.Get("/", h.handleList)
		r.Get("/search", h.handleSearch)
		r.Get("/unit/{unitId}", h.handleListByUnit)
		r.Get("/{id}", h.handleGet)
		r.Get("/by-username/{username}", h.handleGetByUsername)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUserManageAll))
		r.Get("/role/{role}", h.handleListByRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUserCreate))
		r.Post("/", h.handleCreate)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUserUpdate))
		r.Put("/{id}", h.handleUpdate)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUserDelete))
		r.Delete("/{id}", h.handleDeactivate)
	})
	// Password changes are self-service; ownership is checked in the
	// service, not by permission.
	r.With(auth.RequireAuth).Post("/{id}/password", h.handleChangePassword)
}

type createRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	Role        string `json:"role" validate:"required"`
	UnitID      int64  `json:"unitId"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric,min=10,max=15"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url,max=255"`
}

type updateRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	Role        string `json:"role" validate:"required"`
	UnitID      int64  `json:"unitId"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric,min=10,max=15"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url,max=255"`
	IsActive    bool   `json:"isActive"`
}

type profileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,numeric,min=10,max=15"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url,max=255"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sc := shared.SecurityFromContext(r.Context())
	list, err := h.service.List(r.Context(), sc)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "keyword is required", shared.CodeValidationFailed)
		return
	}
	list, err := h.service.Search(r.Context(), shared.SecurityFromContext(r.Context()), keyword)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListByUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "unitId"), 10, 64)
	if err != nil || unitID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid unit id", shared.CodeValidationFailed)
		return
	}
	list, err := h.service.ListByUnit(r.Context(), shared.SecurityFromContext(r.Context()), unitID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListByRole(w http.ResponseWriter, r *http.Request) {
	role, err := rbac.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role", shared.CodeValidationFailed)
		return
	}
	list, err := h.service.ListByRole(r.Context(), role)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if list == nil {
		list = []User{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), shared.SecurityFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), shared.SecurityFromContext(r.Context()), ProfileInput{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), shared.SecurityFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleGetByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.service.GetByUsername(r.Context(), shared.SecurityFromContext(r.Context()), username)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role", shared.CodeValidationFailed)
		return
	}

	user, err := h.service.Create(r.Context(), shared.SecurityFromContext(r.Context()), CreateInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Role:        role,
		UnitID:      req.UnitID,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if !h.decode(w, r, &req) {
		return
	}
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role", shared.CodeValidationFailed)
		return
	}

	user, err := h.service.Update(r.Context(), shared.SecurityFromContext(r.Context()), id, UpdateInput{
		Email:       req.Email,
		FullName:    req.FullName,
		Role:        role,
		UnitID:      req.UnitID,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Deactivate(r.Context(), shared.SecurityFromContext(r.Context()), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.service.ChangePassword(r.Context(), shared.SecurityFromContext(r.Context()), id, req.OldPassword, req.NewPassword)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id", shared.CodeValidationFailed)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body", shared.CodeValidationFailed)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error(), shared.CodeValidationFailed)
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	httpx.RespondError(w, err)
}
