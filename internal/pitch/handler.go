package pitch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/portfolio-api/internal/http/render"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100

	fileField = "proposal_file"
	// formOverhead covers the text fields and multipart framing.
	formOverhead = 1 << 20
)

// Handler serves the pitch endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
	logger   *logging.Logger
}

// NewHandler caps uploaded proposals at maxFileBytes.
func NewHandler(svc *Service, maxFileBytes int64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, maxBytes: maxFileBytes, logger: logger}
}

// Routes mounts under /pitch. admin guards the listing.
func (h *Handler) Routes(admin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Post("/", h.Create)
	r.With(admin).Get("/", h.List)
	return r
}

// Health handles GET /pitch/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Create handles multipart POST /pitch.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w)
			return
		}
		render.Error(w, http.StatusBadRequest, "expected multipart/form-data body")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	sub := Submission{
		Name:               r.FormValue("name"),
		CompanyName:        r.FormValue("company_name"),
		Sector:             r.FormValue("sector"),
		InvestmentRequired: r.FormValue("investment_required"),
		Email:              r.FormValue("email"),
		ContactNumber:      r.FormValue("contact_number"),
		PitchSummary:       r.FormValue("pitch_summary"),
	}
	if err := render.Validate(&sub); err != nil {
		render.BadRequest(w, err)
		return
	}

	file, err := h.readFile(r)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			h.tooLarge(w)
			return
		}
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Submit(r.Context(), sub, file)
	if err != nil {
		h.logger.Error("failed to save pitch", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to submit pitch")
		return
	}
	render.JSON(w, http.StatusCreated, result)
}

var errFileTooLarge = errors.New("pitch: proposal file too large")

func (h *Handler) readFile(r *http.Request) (*File, error) {
	f, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", fileField, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fileField, err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, errFileTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &File{Name: filepath.Base(header.Filename), ContentType: contentType, Data: data}, nil
}

func (h *Handler) tooLarge(w http.ResponseWriter) {
	render.Error(w, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("proposal file exceeds %d MB", h.maxBytes>>20))
}

type listResponse struct {
	Success bool     `json:"success"`
	Limit   int      `json:"limit"`
	Skip    int      `json:"skip"`
	Count   int      `json:"count"`
	Data    []*Pitch `json:"data"`
}

// List handles GET /pitch for admins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := render.ParsePage(r, defaultListLimit, maxListLimit)
	if err != nil {
		render.BadRequest(w, err)
		return
	}
	pitches, err := h.svc.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		h.logger.Error("failed to list pitches", "error", err)
		render.Error(w, http.StatusInternalServerError, "failed to list pitches")
		return
	}
	render.JSON(w, http.StatusOK, listResponse{
		Success: true,
		Limit:   page.Limit,
		Skip:    page.Skip,
		Count:   len(pitches),
		Data:    pitches,
	})
}
