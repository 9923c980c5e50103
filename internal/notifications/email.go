package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// EmailSender renders a named template with payload data and delivers it.
type EmailSender interface {
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

type smtpSender struct {
	config    *SMTPConfig
	templates map[string]*template.Template
	subjects  map[string]string
}

func NewSMTPSender(config *SMTPConfig) (EmailSender, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("smtp port %d out of range", config.Port)
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.FromName == "" {
		config.FromName = "Reservio"
	}

	sender := &smtpSender{
		config:    config,
		templates: make(map[string]*template.Template),
		subjects:  make(map[string]string),
	}
	sender.loadTemplates()
	return sender, nil
}

func (s *smtpSender) loadTemplates() {
	s.register(TemplateSlotAvailable,
		"Uma vaga abriu no espaço que você aguardava",
		`<html><body>
<p>Olá {{.client_name}},</p>
<p>Abriu uma vaga para <strong>{{.date}}</strong>{{if .preferred_time}} ({{.preferred_time}}){{end}}.</p>
<p>Entre em contato para garantir sua reserva. A vaga é oferecida por ordem de prioridade na fila.</p>
<p>Equipe Reservio</p>
</body></html>`)

	s.register(TemplateHoldConfirmed,
		"Sua pré-reserva foi registrada",
		`<html><body>
<p>Olá {{.client_name}},</p>
<p>Sua pré-reserva para <strong>{{.date}}</strong> foi registrada e ficará garantida até {{.expires_at}}.</p>
<p>Confirme antes do prazo para não perder o horário.</p>
<p>Equipe Reservio</p>
</body></html>`)

	s.register(TemplateHoldExpired,
		"Sua pré-reserva expirou",
		`<html><body>
<p>Olá {{.client_name}},</p>
<p>Sua pré-reserva para <strong>{{.date}}</strong> expirou e o horário foi liberado.</p>
<p>Se ainda tiver interesse, fale conosco para verificar a disponibilidade.</p>
<p>Equipe Reservio</p>
</body></html>`)

	s.register(TemplateBookingUpgraded,
		"Reserva confirmada",
		`<html><body>
<p>Olá {{.client_name}},</p>
<p>Sua reserva para <strong>{{.date}}</strong> está confirmada.</p>
<p>Equipe Reservio</p>
</body></html>`)
}

func (s *smtpSender) register(name, subject, body string) {
	s.templates[name] = template.Must(template.New(name).Parse(body))
	s.subjects[name] = subject
}

func (s *smtpSender) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown notification template %q", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template %q: %w", templateName, err)
	}

	return s.send(to, s.subjects[templateName], body.String())
}

func (s *smtpSender) send(to, subject, htmlBody string) error {
	message := s.buildMessage(to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if s.config.UseTLS {
		return s.sendTLS(addr, auth, to, message)
	}
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
}

func (s *smtpSender) sendTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("starttls failed: %w", err)
	}
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(message); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *smtpSender) buildMessage(to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}
