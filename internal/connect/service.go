package connect

import (
	"context"
	"strings"

	"github.com/wolfman30/portfolio-api/internal/notify"
	"github.com/wolfman30/portfolio-api/internal/observability/metrics"
	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// Mailer delivers templated notifications.
type Mailer interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Service stores contact requests and acknowledges them by email.
type Service struct {
	repo     Repository
	mailer   Mailer
	operator string
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

func NewService(repo Repository, mailer Mailer, operatorEmail string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("connect: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		mailer:   mailer,
		operator: strings.TrimSpace(operatorEmail),
		metrics:  m,
		logger:   logger,
	}
}

// Submit persists sub, then emails the sender and the operator. Email
// failures are logged only.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Request, error) {
	req, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.logger.Info("connect request received", "id", req.ID, "purpose", req.Purpose)

	s.send(ctx, notify.Notification{
		To:       sub.Email,
		ToName:   sub.Name,
		Subject:  "Thanks for connecting with us",
		Template: notify.TemplateConnectUser,
		Data:     map[string]any{"name": sub.Name, "purpose": sub.Purpose},
	})
	if s.operator != "" {
		s.send(ctx, notify.Notification{
			To:       s.operator,
			Subject:  "New Connect Request",
			Template: notify.TemplateConnectAdmin,
			Data: map[string]any{
				"name":    sub.Name,
				"email":   sub.Email,
				"purpose": sub.Purpose,
				"message": sub.Message,
			},
		})
	}
	return req, nil
}

func (s *Service) send(ctx context.Context, n notify.Notification) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.Send(ctx, n)
	s.metrics.ObserveNotification(n.Template, err)
	if err != nil {
		s.logger.Error("connect notification failed", "error", err, "template", n.Template, "to", n.To)
	}
}

// List returns entries newest first.
func (s *Service) List(ctx context.Context, skip, limit int) ([]Entry, error) {
	reqs, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, Entry{Name: r.Name, Email: r.Email, Purpose: r.Purpose, Message: r.Message, CreatedAt: r.CreatedAt})
	}
	return out, nil
}
