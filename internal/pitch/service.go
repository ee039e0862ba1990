package pitch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/portfolio-api/internal/notify"
	"github.com/wolfman30/portfolio-api/internal/observability/metrics"
	"github.com/wolfman30/portfolio-api/internal/storage"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

const (
	objectPrefix    = "pitches"
	timestampLayout = "02 Jan 2006, 03:04 PM"
)

// Mailer delivers templated notifications.
type Mailer interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Result is what a submitter gets back.
type Result struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	HasFile   bool      `json:"has_file"`
}

// Service stores pitches, uploads proposals and notifies both sides.
type Service struct {
	repo     Repository
	uploader storage.Uploader
	mailer   Mailer
	operator string
	loc      *time.Location
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService wires a pitch service. uploader may be nil, in which case
// proposals only travel as email attachments.
func NewService(repo Repository, uploader storage.Uploader, mailer Mailer, operatorEmail string, loc *time.Location, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("pitch: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		uploader: uploader,
		mailer:   mailer,
		operator: strings.TrimSpace(operatorEmail),
		loc:      loc,
		metrics:  m,
		logger:   logger,
	}
}

// Submit uploads file when present, stores the pitch and sends the
// acknowledgement and operator emails. Upload and email failures are
// logged; only a failed insert fails the call.
func (s *Service) Submit(ctx context.Context, sub Submission, file *File) (*Result, error) {
	p := &Pitch{
		Name:               sub.Name,
		CompanyName:        sub.CompanyName,
		Sector:             sub.Sector,
		InvestmentRequired: sub.InvestmentRequired,
		Email:              sub.Email,
		ContactNumber:      sub.ContactNumber,
		PitchSummary:       sub.PitchSummary,
	}
	if file != nil && s.uploader != nil {
		url, err := s.uploader.Upload(ctx, storage.ObjectKey(objectPrefix, file.Name), file.ContentType, file.Data)
		if err != nil {
			s.logger.Error("proposal upload failed", "error", err, "file_name", file.Name, "email", sub.Email)
		} else {
			p.ProposalFileURL = url
		}
	}

	saved, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pitch received", "id", saved.ID, "company", saved.CompanyName, "has_file", file != nil)

	s.notify(ctx, saved, file)
	return &Result{ID: saved.ID, Email: saved.Email, CreatedAt: saved.CreatedAt, HasFile: file != nil}, nil
}

func (s *Service) notify(ctx context.Context, p *Pitch, file *File) {
	timestamp := p.CreatedAt.In(s.loc).Format(timestampLayout)
	s.send(ctx, notify.Notification{
		To:       p.Email,
		ToName:   p.Name,
		Subject:  "Pitch Submitted Successfully",
		Template: notify.TemplatePitchUser,
		Data:     map[string]any{"name": p.Name, "timestamp": timestamp},
	})
	if s.operator == "" {
		return
	}

	data := map[string]any{
		"name":                p.Name,
		"company_name":        p.CompanyName,
		"sector":              p.Sector,
		"investment_required": p.InvestmentRequired,
		"email":               p.Email,
		"contact_number":      p.ContactNumber,
		"pitch_summary":       p.PitchSummary,
		"has_file":            file != nil,
		"file_name":           "",
		"file_size":           "",
		"file_url":            p.ProposalFileURL,
		"timestamp":           timestamp,
	}
	var attachments []notify.Attachment
	if file != nil {
		data["file_name"] = file.Name
		data["file_size"] = file.SizeLabel()
		attachments = append(attachments, notify.Attachment{
			Filename:    file.Name,
			ContentType: file.ContentType,
			Data:        file.Data,
		})
	}
	s.send(ctx, notify.Notification{
		To:          s.operator,
		Subject:     "New Pitch Received",
		Template:    notify.TemplatePitchAdmin,
		Data:        data,
		Attachments: attachments,
	})
}

func (s *Service) send(ctx context.Context, n notify.Notification) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.Send(ctx, n)
	s.metrics.ObserveNotification(n.Template, err)
	if err != nil {
		s.logger.Error("pitch notification failed", "error", err, "template", n.Template, "to", n.To)
	}
}

// List returns pitches newest first.
func (s *Service) List(ctx context.Context, skip, limit int) ([]*Pitch, error) {
	return s.repo.List(ctx, skip, limit)
}

func formatKB(n int) string {
	return fmt.Sprintf("%.2f KB", float64(n)/1024)
}
