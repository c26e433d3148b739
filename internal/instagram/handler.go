package instagram

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/platform/httpx"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
)

// Handler manages feed endpoints.
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

// MountRoutes registers the feed routes. The feed itself is public; curation
// requires content permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.feed)
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireAny(rbac.PermPublishContent, rbac.PermManageSettings))
		r.Post("/", h.addPost)
		r.Delete("/{id}", h.removePost)
	})
}

type postRequest struct {
	MediaURL  string    `json:"mediaUrl" validate:"required,url"`
	Permalink string    `json:"permalink" validate:"required,url"`
	Caption   *string   `json:"caption"`
	PostedAt  time.Time `json:"postedAt" validate:"required"`
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.Feed(r.Context())
	if err != nil {
		h.logger.Error("load feed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, posts)
}

func (h *Handler) addPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	post, err := h.service.AddPost(r.Context(), PostInput{
		MediaURL:  req.MediaURL,
		Permalink: req.Permalink,
		Caption:   req.Caption,
		PostedAt:  req.PostedAt,
	})
	if err != nil {
		h.logger.Error("add feed post", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *Handler) removePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid post id")
		return
	}
	if err := h.service.RemovePost(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
