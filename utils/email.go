// utils/email.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"go-shop/config"
	"go-shop/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a rendered transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a Message through some transport.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named by cfg.Provider.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "postmark":
		return NewPostmarkMailer(cfg.PostmarkToken, cfg.From), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridKey, cfg.From, cfg.FromName), nil
	case "log":
		return LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// PostmarkMailer sends through the Postmark API.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{client: postmark.NewClient(serverToken, ""), from: from}
}

func (m *PostmarkMailer) Send(_ context.Context, msg Message) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	return nil
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, from, fromName string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: mail.NewEmail(fromName, from)}
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("email not delivered (log transport)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("text", msg.Text))
	return nil
}

// EmailService renders the shop's transactional emails and hands them to a Mailer.
type EmailService struct {
	mailer      Mailer
	brand       string
	frontendURL string
}

func NewEmailService(mailer Mailer, cfg config.EmailConfig) *EmailService {
	return &EmailService{mailer: mailer, brand: cfg.FromName, frontendURL: cfg.FrontendURL}
}

var verificationTmpl = template.Must(template.New("verify").Parse(`
<div style="font-family: Arial, sans-serif; background-color: #f9fafb; padding: 30px; text-align: center;">
  <div style="max-width: 500px; margin: 0 auto; background: white; border-radius: 12px; padding: 30px;">
    <h2 style="color: #333;">Welcome to <span style="color: #ff4500;">{{.Brand}}</span>!</h2>
    <p style="font-size: 16px; color: #555; margin-bottom: 30px;">
      Thanks for signing up! Please verify your email address to activate your account.
    </p>
    <a href="{{.Link}}" target="_blank"
       style="display: inline-block; background-color: #ff4500; color: white; padding: 12px 25px; border-radius: 8px; text-decoration: none; font-weight: bold;">
      Verify Email
    </a>
    <p style="margin-top: 25px; color: #777; font-size: 14px;">
      If you didn't create an account, you can safely ignore this email.
    </p>
    <hr style="margin: 25px 0; border: 0; border-top: 1px solid #eee;" />
    <p style="color: #999; font-size: 12px;">&copy; {{.Year}} {{.Brand}}. All rights reserved.</p>
  </div>
</div>`))

var statusTmpl = template.Must(template.New("status").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border-radius: 8px; background: #f9f9f9; color: #333;">
  <h2 style="text-align: center; color: #0f5132;">{{.Brand}}</h2>
  <p>Hi <b>{{.Name}}</b>,</p>
  <p>We're happy to update you about your order <b>{{.PaymentRef}}</b>.</p>
  <p><b>Current Status:</b> <span style="color:#0f5132; font-weight:bold;">{{.Status}}</span></p>
  <p>{{.Description}}</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="padding: 12px 20px; background: #0f5132; color: white; text-decoration: none; border-radius: 6px;">Track My Order</a>
  </div>
  <p>Thank you for shopping with <b>{{.Brand}}</b>.</p>
  <hr style="border: none; border-top: 1px solid #ccc; margin: 20px 0;">
  <p style="font-size: 12px; text-align: center; color: #777;">&copy; {{.Year}} {{.Brand}}. All rights reserved.</p>
</div>`))

// VerificationLink is the frontend route that consumes a verification token.
func (es *EmailService) VerificationLink(token string) string {
	return fmt.Sprintf("%s/verify/%s", es.frontendURL, token)
}

// TrackingLink is the frontend route that displays an order.
func (es *EmailService) TrackingLink(order *models.Order) string {
	return fmt.Sprintf("%s/track/%s", es.frontendURL, order.ID.Hex())
}

// SendVerificationEmail sends an email verification link to the user
func (es *EmailService) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	link := es.VerificationLink(token)
	html, err := render(verificationTmpl, map[string]interface{}{
		"Brand": es.brand,
		"Link":  link,
		"Year":  time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return es.mailer.Send(ctx, Message{
		To:      toEmail,
		Subject: fmt.Sprintf("Verify your email - %s", es.brand),
		HTML:    html,
		Text:    fmt.Sprintf("Please verify your email by opening this link: %s", link),
	})
}

// SendOrderStatusEmail tells the order's contact address about a status change.
func (es *EmailService) SendOrderStatusEmail(ctx context.Context, order *models.Order) error {
	link := es.TrackingLink(order)
	html, err := render(statusTmpl, map[string]interface{}{
		"Brand":       es.brand,
		"Name":        order.Name,
		"PaymentRef":  order.PaymentRef,
		"Status":      string(order.Status),
		"Description": order.Status.Description(),
		"Link":        link,
		"Year":        time.Now().Year(),
	})
	if err != nil {
		return err
	}

	return es.mailer.Send(ctx, Message{
		To:      order.Email,
		Subject: fmt.Sprintf("Your Order Status Update - %s", es.brand),
		HTML:    html,
		Text: fmt.Sprintf("Hi %s, your order %s is now %s. %s Track it at %s",
			order.Name, order.PaymentRef, order.Status, order.Status.Description(), link),
	})
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}
