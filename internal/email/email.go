// Package email delivers account verification mail over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"net/url"
	"strings"
)

// Sender delivers account emails.
type Sender interface {
	SendVerification(to, userName, token string) error
}

// Config holds SMTP configuration.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
	// BaseURL is the public API origin used to build verification links.
	BaseURL string
}

// IsConfigured returns true if SMTP delivery is possible.
func (c Config) IsConfigured() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

// New returns an SMTP sender when configured, otherwise a sender that logs the
// verification link.
func New(cfg Config) Sender {
	if !cfg.IsConfigured() {
		return &LogSender{BaseURL: cfg.BaseURL}
	}
	return NewSMTPSender(cfg)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends HTML mail through an SMTP relay.
type SMTPSender struct {
	config   Config
	server   string
	auth     smtp.Auth
	sendMail sendMailFunc
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg Config) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		config:   cfg,
		server:   cfg.Host + ":" + cfg.Port,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

type verificationData struct {
	AppName         string
	UserName        string
	VerificationURL string
}

// SendVerification sends the email verification message.
func (s *SMTPSender) SendVerification(to, userName, token string) error {
	appName := s.config.FromName
	if appName == "" {
		appName = "CivicWatch"
	}
	html, err := renderTemplate(verificationTemplate, verificationData{
		AppName:         appName,
		UserName:        userName,
		VerificationURL: VerificationURL(s.config.BaseURL, token),
	})
	if err != nil {
		return fmt.Errorf("render verification template: %w", err)
	}
	return s.sendHTML([]string{to}, "Verify your "+appName+" account", html)
}

func (s *SMTPSender) sendHTML(to []string, subject, htmlBody string) error {
	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)

	return s.sendMail(s.server, s.auth, s.config.From, to, msg.Bytes())
}

// LogSender writes verification links to the process log.
type LogSender struct {
	BaseURL string
}

// SendVerification logs the link instead of mailing it.
func (l *LogSender) SendVerification(to, _ string, token string) error {
	log.Printf("email: smtp not configured, verification link for %s: %s", to, VerificationURL(l.BaseURL, token))
	return nil
}

// VerificationURL builds the link that confirms an email address.
func VerificationURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/auth/verify?token=" + url.QueryEscape(token)
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const verificationTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Verify your {{.AppName}} account</title>
</head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>{{.AppName}}</h1>
    <h2>Welcome, {{.UserName}}!</h2>
    <p>Confirm your email address so your reports reach the right people.</p>
    <p><a href="{{.VerificationURL}}">Verify Email Address</a></p>
    <p>Or paste this link into your browser:</p>
    <p style="word-break: break-all;">{{.VerificationURL}}</p>
    <p style="font-size: 12px; color: #666;">If you did not create an account, you can ignore this email.</p>
</body>
</html>`
