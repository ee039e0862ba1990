package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/portfolio-api/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "test@example.com"}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "test@example.com"}, nil)
	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "Portfolio" {
		t.Errorf("expected default from name 'Portfolio', got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	var sender *SendGridSender
	if err := sender.Send(context.Background(), EmailMessage{To: "a@b.com"}); err == nil {
		t.Error("expected error for nil sender")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(logging.Discard())
	err := sender.Send(context.Background(), EmailMessage{To: "test@example.com", Subject: "Test"})
	if err != nil {
		t.Errorf("stub sender should not return error, got %v", err)
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	if NewSESSender(nil, SESConfig{}, nil) != nil {
		t.Fatal("expected nil sender without client")
	}
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "ops@example.com", FromName: "Ops"}, logging.Discard())

	err := sender.Send(context.Background(), EmailMessage{
		To:      "user@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := aws.ToString(client.input.FromEmailAddress); got != "Ops <ops@example.com>" {
		t.Fatalf("unexpected from: %q", got)
	}
	if client.input.Destination.ToAddresses[0] != "user@example.com" {
		t.Fatalf("unexpected destination: %v", client.input.Destination.ToAddresses)
	}
	if client.input.Content.Simple.Body.Html == nil || client.input.Content.Simple.Body.Text != nil {
		t.Fatal("expected html-only body")
	}
}

func TestSESSender_SendError(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	sender := NewSESSender(client, SESConfig{FromEmail: "ops@example.com"}, logging.Discard())
	if err := sender.Send(context.Background(), EmailMessage{To: "user@example.com"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSMTPSender_Send(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{
		Host:     "smtp.example.com",
		Username: "mailer@example.com",
		Password: "secret",
		FromName: "Mentor",
	}, logging.Discard())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "user@example.com",
		Subject: "Session\r\nBcc: evil@example.com",
		HTML:    "<p>hello</p>",
		Attachments: []Attachment{
			{Filename: "deck.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAddr != "smtp.example.com:587" {
		t.Fatalf("unexpected addr %q", gotAddr)
	}
	if gotFrom != "mailer@example.com" {
		t.Fatalf("expected from to default to username, got %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "user@example.com" {
		t.Fatalf("unexpected recipients %v", gotTo)
	}
	raw := string(gotMsg)
	if strings.Contains(raw, "\r\nBcc:") {
		t.Fatal("header injection was not stripped")
	}
	for _, want := range []string{"Content-Type: multipart/mixed", "text/html; charset=utf-8", "filename=deck.pdf", "application/pdf"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}
}

func TestSMTPSender_SendError(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 2525, FromEmail: "a@example.com"}, logging.Discard())
	sender.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay denied")
	}
	err := sender.Send(context.Background(), EmailMessage{To: "user@example.com", Body: "x"})
	if err == nil || !strings.Contains(err.Error(), "relay denied") {
		t.Fatalf("expected wrapped relay error, got %v", err)
	}
}

func TestWrapBase64_LineLength(t *testing.T) {
	out := wrapBase64([]byte(strings.Repeat("a", 200)))
	for _, line := range strings.Split(strings.TrimRight(string(out), "\r\n"), "\r\n") {
		if len(line) > 76 {
			t.Fatalf("line too long: %d", len(line))
		}
	}
}
