package albums

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

// Handler manages album endpoints.
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

// MountRoutes registers the authenticated album routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Authenticated())
		r.Get("/", h.listAlbums)
		r.Get("/{id}", h.getAlbum)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireAny(rbac.PermPublishContent, rbac.PermPublishOwnContent, rbac.PermManagePhotos))
		r.Post("/", h.createAlbum)
		r.Put("/{id}", h.updateAlbum)
		r.Delete("/{id}", h.deleteAlbum)
		r.Post("/{id}/photos", h.addPhotos)
		r.Delete("/{id}/photos", h.removePhotos)
		r.Post("/{id}/share", h.generateShareToken)
		r.Put("/{id}/password", h.setPassword)
		r.Post("/{id}/notify", h.notifyClient)
	})
}

// MountSharedRoutes registers the unauthenticated share-link routes.
func (h *Handler) MountSharedRoutes(r chi.Router) {
	r.Get("/{token}", h.resolveShared)
	r.Post("/{token}/verify", h.verifySharedPassword)
}

type albumRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	ClientID    *int64  `json:"clientId"`
}

type photoIDsRequest struct {
	PhotoIDs []int64 `json:"photoIds" validate:"required,min=1"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) listAlbums(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	albums, err := h.service.ListAlbums(r.Context(), principal)
	if err != nil {
		h.logger.Error("list albums", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, albums)
}

func (h *Handler) getAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetAlbum(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) createAlbum(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAlbum(w, r)
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	details, err := h.service.CreateAlbum(r.Context(), principal, req.input())
	if err != nil {
		h.logger.Error("create album", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, details)
}

func (h *Handler) updateAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeAlbum(w, r)
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	details, err := h.service.UpdateAlbum(r.Context(), principal, id, req.input())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.DeleteAlbum(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) addPhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	var req photoIDsRequest
	if !h.decode(w, r, &req) {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.AddPhotos(r.Context(), principal, id, req.PhotoIDs); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) removePhotos(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	var req photoIDsRequest
	if !h.decode(w, r, &req) {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.RemovePhotos(r.Context(), principal, id, req.PhotoIDs); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) generateShareToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	link, err := h.service.GenerateShareToken(r.Context(), principal, id)
	if err != nil {
		h.logger.Error("generate share token", slog.Any("error", err), slog.Int64("album_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, link)
}

func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.SetPassword(r.Context(), principal, id, req.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) notifyClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.albumID(w, r)
	if !ok {
		return
	}
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.service.NotifyClient(r.Context(), principal, id); err != nil {
		h.logger.Error("notify client", slog.Any("error", err), slog.Int64("album_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) resolveShared(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ResolveByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) verifySharedPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}
	details, err := h.service.VerifyPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) decodeAlbum(w http.ResponseWriter, r *http.Request) (albumRequest, bool) {
	var req albumRequest
	if !h.decode(w, r, &req) {
		return req, false
	}
	return req, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) albumID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid album id")
		return 0, false
	}
	return id, true
}

func (r albumRequest) input() AlbumInput {
	return AlbumInput{
		Title:       r.Title,
		Description: r.Description,
		ClientID:    r.ClientID,
	}
}
