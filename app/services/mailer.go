package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"

	"github.com/Rakhulsr/go-foodie/app/events"
	"github.com/Rakhulsr/go-foodie/app/utils/format"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Mailer struct {
	config   MailConfig
	sendMail sendMailFunc
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config:   cfg,
		sendMail: smtp.SendMail,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	var msg bytes.Buffer
	for _, h := range [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	} {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n" + htmlBody)

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := m.sendMail(addr, auth, m.config.From, []string{to}, msg.Bytes()); err != nil {
		log.Printf("Mailer.SendHTMLEmail: to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// OrderMailer is an events.Publisher that e-mails customers about placed and
// paid orders.
type OrderMailer struct {
	mailer   *Mailer
	currency string
}

func NewOrderMailer(mailer *Mailer, currency string) *OrderMailer {
	return &OrderMailer{mailer: mailer, currency: currency}
}

var orderMailSubjects = map[string]string{
	events.OrderCreated:   "We received your order",
	events.OrderPaid:      "Payment received for your order",
	events.OrderCancelled: "Your order was cancelled",
}

func (m *OrderMailer) Publish(ctx context.Context, event events.OrderEvent) error {
	subject, ok := orderMailSubjects[event.Type]
	if !ok || event.CustomerEmail == "" {
		return nil
	}

	body, err := BuildOrderEmailBody(event, m.currency)
	if err != nil {
		return err
	}
	return m.mailer.SendHTMLEmail(event.CustomerEmail, subject, body)
}

var orderEmailTemplate = template.Must(template.New("order").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Subject}}</h2>
  <p>Hi {{.Name}},</p>
  <p>Order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>
  <p>Total: {{.Total}}</p>
  <p>Thank you for ordering with Foodie.</p>
</body>
</html>`))

func BuildOrderEmailBody(event events.OrderEvent, currency string) (string, error) {
	name := event.CustomerName
	if name == "" {
		name = "there"
	}

	var buf bytes.Buffer
	err := orderEmailTemplate.Execute(&buf, map[string]string{
		"Subject": orderMailSubjects[event.Type],
		"Name":    name,
		"OrderID": event.OrderID,
		"Status":  event.Status,
		"Total":   format.Money(event.TotalPrice, currency),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render order email: %w", err)
	}
	return buf.String(), nil
}
