// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package mail delivers transactional email over SMTP, with a development
// fallback that logs instead of sending.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	"github.com/zusammen-umzuege/zusammen/internal/config"
)

// SendFunc matches smtp.SendMail; injectable for tests.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// resetMailTemplate is the German password-reset email. The link promises a
// one-hour validity window; the token store enforces it.
var resetMailTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f5f5f5;">
  <table width="100%" border="0" cellspacing="0" cellpadding="0" bgcolor="#f5f5f5">
    <tr><td align="center" style="padding:40px 0;">
      <table width="600" border="0" cellspacing="0" cellpadding="0" bgcolor="#ffffff" style="border-radius:12px;overflow:hidden;">
        <tr><td height="6" bgcolor="#1d4ed8" style="line-height:6px;font-size:6px;">&nbsp;</td></tr>
        <tr><td style="padding:35px 40px;"><h1 style="margin:0;color:#1d4ed8;font-size:22px;">Zusammen Umz&uuml;ge</h1></td></tr>
        <tr><td style="padding:0 40px 40px 40px;">
          <h2 style="margin:0 0 15px 0;color:#111111;">Passwort zur&uuml;cksetzen</h2>
          <p>Sie haben angefordert, Ihr Passwort zur&uuml;ckzusetzen. Klicken Sie auf den Button, um ein neues Passwort zu vergeben:</p>
          <table border="0" cellspacing="0" cellpadding="0" style="margin:25px 0;">
            <tr><td bgcolor="#1d4ed8" style="border-radius:8px;padding:14px 30px;">
              <a href="{{.ResetURL}}" style="color:#ffffff;text-decoration:none;font-weight:bold;">Neues Passwort vergeben</a>
            </td></tr>
          </table>
          <p style="color:#666666;font-size:13px;">Der Link ist eine Stunde g&uuml;ltig. Wenn Sie diese E-Mail nicht angefordert haben, k&ouml;nnen Sie sie ignorieren.</p>
        </td></tr>
        <tr><td align="center" bgcolor="#1f2937" style="padding:20px;color:#9ca3af;font-size:12px;">&copy; 2026 Zusammen Umz&uuml;ge</td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`))

// SMTPMailer sends transactional mail. In dev mode (no SMTP credentials, or
// a non-production environment) nothing is sent; the reset link is logged so
// the flow stays fully testable without a mail server.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	siteURL string
	locale  string
	devMode bool
	send    SendFunc
	logger  *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer. Reset links carry the given locale
// prefix. Dev mode is on when the host or credentials are missing, or when
// production is false.
func NewSMTPMailer(cfg config.SMTPConfig, siteURL, locale string, production bool, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	if locale == "" {
		locale = "de"
	}
	devMode := !production || cfg.Host == "" || cfg.Username == "" || cfg.Password == ""
	return &SMTPMailer{
		cfg:     cfg,
		siteURL: strings.TrimRight(siteURL, "/"),
		locale:  locale,
		devMode: devMode,
		send:    smtp.SendMail,
		logger:  logger,
	}
}

// ResetURL builds the locale-prefixed reset link carried in the email.
func (m *SMTPMailer) ResetURL(token string) string {
	return fmt.Sprintf("%s/%s/reset-password?token=%s", m.siteURL, m.locale, url.QueryEscape(token))
}

// SendPasswordResetEmail delivers the reset link. Reports delivery success;
// transport failures are logged, never surfaced as errors. In dev mode the
// link is logged and delivery is reported successful.
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, email, token string) bool {
	resetURL := m.ResetURL(token)

	if m.devMode {
		m.logger.InfoContext(ctx, "password reset link (mail delivery disabled)",
			"email", email, "url", resetURL)
		return true
	}

	var body bytes.Buffer
	if err := resetMailTemplate.Execute(&body, struct{ ResetURL string }{resetURL}); err != nil {
		m.logger.ErrorContext(ctx, "failed to render reset email", "error", err)
		return false
	}

	msg := buildMessage(m.cfg.From, email, "Passwort zurücksetzen – Zusammen Umzüge", body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.From, []string{email}, msg); err != nil {
		m.logger.ErrorContext(ctx, "failed to send reset email",
			"email", email, "error", err)
		return false
	}

	m.logger.InfoContext(ctx, "reset email sent", "email", email)
	return true
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return b.Bytes()
}

// Compile-time interface check.
var _ auth.ResetMailer = (*SMTPMailer)(nil)
