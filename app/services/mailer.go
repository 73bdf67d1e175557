package services

import (
	"fmt"
	"html"
	"net/smtp"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type EmailSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	if m.config.Host == "" {
		return fmt.Errorf("mailer is not configured")
	}

	headers := [][2]string{
		{"From", m.config.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=\"UTF-8\""},
	}

	var msg string
	for _, h := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", h[0], h[1])
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func BuildNewOrderEmailBody(artisanName, buyerName string, orderID uint, amount string) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>New Order Received</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                .content { padding: 20px; }
                .amount { font-size: 1.4em; font-weight: bold; color: #007bff; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>New Order Received</h2>
                </div>
                <div class="content">
                    <p>Hello %s,</p>
                    <p>You have received a new order from %s.</p>
                    <p>Order #%d has been paid: <span class="amount">%s</span></p>
                    <p>Please prepare the items for shipping.</p>
                </div>
            </div>
        </body>
        </html>
    `, html.EscapeString(artisanName), html.EscapeString(buyerName), orderID, html.EscapeString(amount))
}
