package units

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

// Handler wires the unit management endpoints.
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

// MountRoutes registers unit routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUnitRead))
		r.Get("/", h.handleList)
		r.Get("/roots", h.handleListRoots)
		r.Get("/search", h.handleSearch)
		r.Get("/parent/{parentId}", h.handleListByParent)
		r.Get("/{id}", h.handleGet)
		r.Get("/by-code/{code}", h.handleGetByCode)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUnitCreate))
		r.Post("/", h.handleCreate)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUnitUpdate))
		r.Put("/{id}", h.handleUpdate)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAny(rbac.PermUnitDelete))
		r.Delete("/{id}", h.handleDeactivate)
	})
}

type unitRequest struct {
	Code         string `json:"code" validate:"required,min=2,max=20"`
	Name         string `json:"name" validate:"required,max=100"`
	ParentUnitID int64  `json:"parentUnitId"`
	Description  string `json:"description" validate:"max=500"`
	Address      string `json:"address" validate:"max=200"`
	Phone        string `json:"phone" validate:"max=20"`
	IsActive     bool   `json:"isActive"`
}

func (r unitRequest) input() Input {
	return Input{
		Code:         r.Code,
		Name:         r.Name,
		ParentUnitID: r.ParentUnitID,
		Description:  r.Description,
		Address:      r.Address,
		Phone:        r.Phone,
		IsActive:     r.IsActive,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Unit{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListRoots(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRoots(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Unit{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleListByParent(w http.ResponseWriter, r *http.Request) {
	parentID, err := strconv.ParseInt(chi.URLParam(r, "parentId"), 10, 64)
	if err != nil || parentID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid parent id", shared.CodeValidationFailed)
		return
	}
	list, err := h.service.ListByParent(r.Context(), parentID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Unit{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "keyword is required", shared.CodeValidationFailed)
		return
	}
	list, err := h.service.Search(r.Context(), keyword)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Unit{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	unit, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	unit, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if !h.decode(w, r, &req) {
		return
	}
	unit, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, unit)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req unitRequest
	if !h.decode(w, r, &req) {
		return
	}
	unit, err := h.service.Update(r.Context(), id, req.input())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
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
