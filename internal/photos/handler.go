package photos

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

const maxUploadBytes = 32 << 20

// Handler manages photo endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers photo routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticated())
		r.Get("/session/{sessionID}", h.listBySession)
		r.Get("/{id}", h.getPhoto)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireAny(rbac.PermUploadPhotos, rbac.PermManagePhotos))
		r.Post("/session/{sessionID}", h.upload)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireAny(rbac.PermEditPhotos, rbac.PermManagePhotos, rbac.PermUploadPhotos))
		r.Put("/{id}", h.updatePhoto)
		r.Delete("/{id}", h.deletePhoto)
	})
}

func (h *Handler) listBySession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}
	photos, err := h.service.ListBySession(r.Context(), sessionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, photos)
}

func (h *Handler) getPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	photo, err := h.service.GetPhoto(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, photo)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := parseID(w, r, "sessionID")
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "multipart form expected")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "photo file is required")
		return
	}
	defer file.Close()

	principal := auth.PrincipalFromContext(r.Context())
	photo, err := h.service.Upload(r.Context(), principal, sessionID, header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.logger.Error("upload photo", slog.Int64("session_id", sessionID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, photo)
}

type updatePhotoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsFeatured  bool    `json:"isFeatured"`
}

func (h *Handler) updatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	var req updatePhotoRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	photo, err := h.service.UpdatePhoto(r.Context(), principal, id, PhotoUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, photo)
}

func (h *Handler) deletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.DeletePhoto(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+param)
		return 0, false
	}
	return id, true
}
