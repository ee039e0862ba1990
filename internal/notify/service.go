package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

// Notification is a templated email.
type Notification struct {
	To          string
	ToName      string
	Subject     string
	Template    string
	Data        map[string]any
	Attachments []Attachment
}

// Service renders notifications and hands them to an EmailSender. The
// operator address receives admin copies.
type Service struct {
	email    EmailSender
	renderer *Renderer
	operator string
	logger   *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, renderer *Renderer, operatorEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	if renderer == nil {
		renderer = MustRenderer()
	}
	return &Service{
		email:    email,
		renderer: renderer,
		operator: strings.TrimSpace(operatorEmail),
		logger:   logger,
	}
}

// OperatorEmail is where admin notifications go.
func (s *Service) OperatorEmail() string {
	return s.operator
}

// Send renders n and delivers it.
func (s *Service) Send(ctx context.Context, n Notification) error {
	if strings.TrimSpace(n.To) == "" {
		return fmt.Errorf("notify: recipient required for %s", n.Template)
	}
	html, err := s.renderer.Render(n.Template, n.Data)
	if err != nil {
		s.logger.Error("notify: render failed", "error", err, "template", n.Template)
		return err
	}
	return s.email.Send(ctx, EmailMessage{
		To:          n.To,
		ToName:      n.ToName,
		Subject:     n.Subject,
		HTML:        html,
		Attachments: n.Attachments,
	})
}
