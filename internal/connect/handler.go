package connect

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/portfolio-api/internal/http/render"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// Handler handles HTTP requests for the contact form.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts under /connect. admin guards the listing.
func (h *Handler) Routes(admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.With(admin).Get("/", h.List)
	return r
}

type createResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Create handles POST /connect.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := render.DecodeJSON(r, &sub); err != nil {
		render.BadRequest(w, err)
		return
	}
	req, err := h.svc.Submit(r.Context(), sub)
	if err != nil {
		h.logger.Error("failed to save connect request", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to submit request")
		return
	}
	render.JSON(w, http.StatusCreated, createResponse{ID: req.ID, CreatedAt: req.CreatedAt})
}

type listResponse struct {
	Success bool    `json:"success"`
	Limit   int     `json:"limit"`
	Skip    int     `json:"skip"`
	Count   int     `json:"count"`
	Data    []Entry `json:"data"`
}

// List handles GET /connect for admins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := render.ParsePage(r, defaultListLimit, maxListLimit)
	if err != nil {
		render.BadRequest(w, err)
		return
	}
	entries, err := h.svc.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.logger.Error("failed to list connect requests", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	render.JSON(w, http.StatusOK, listResponse{
		Success: true,
		Limit:   page.Limit,
		Skip:    page.Skip,
		Count:   len(entries),
		Data:    entries,
	})
}
