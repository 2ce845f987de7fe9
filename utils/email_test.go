package utils

import (
	"context"
	"strings"
	"testing"

	"go-shop/config"
	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingMailer struct {
	sent []Message
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newTestEmailService() (*EmailService, *recordingMailer) {
	mailer := &recordingMailer{}
	return NewEmailService(mailer, config.EmailConfig{FromName: "MistressChef", FrontendURL: "http://shop.test"}), mailer
}

func TestSendVerificationEmail(t *testing.T) {
	es, mailer := newTestEmailService()

	if err := es.SendVerificationEmail(context.Background(), "ada@example.com", "tok.en.sig"); err != nil {
		t.Fatal(err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d messages", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To != "ada@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.HTML, "http://shop.test/verify/tok.en.sig") {
		t.Errorf("link missing from HTML body:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.Text, "http://shop.test/verify/tok.en.sig") {
		t.Errorf("link missing from text body: %s", msg.Text)
	}
}

func TestSendOrderStatusEmail(t *testing.T) {
	es, mailer := newTestEmailService()
	order := &models.Order{
		ID:         primitive.NewObjectID(),
		Name:       "Ada <script>",
		Email:      "ada@example.com",
		PaymentRef: "PAY-1",
		Status:     models.StatusShipped,
	}

	if err := es.SendOrderStatusEmail(context.Background(), order); err != nil {
		t.Fatal(err)
	}
	msg := mailer.sent[0]
	if msg.To != order.Email || !strings.Contains(msg.Subject, "Order Status Update") {
		t.Errorf("message = %+v", msg)
	}
	for _, want := range []string{"PAY-1", "Shipped", models.StatusShipped.Description(), "http://shop.test/track/" + order.ID.Hex()} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("customer name was not escaped")
	}
}

func TestNewMailer(t *testing.T) {
	for _, provider := range []string{"postmark", "sendgrid", "log"} {
		if _, err := NewMailer(config.EmailConfig{Provider: provider, PostmarkToken: "x", SendGridKey: "y"}); err != nil {
			t.Errorf("NewMailer(%s): %v", provider, err)
		}
	}
	if _, err := NewMailer(config.EmailConfig{Provider: "pigeon"}); err == nil {
		t.Error("unknown provider accepted")
	}
}
