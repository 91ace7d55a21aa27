// Package email delivers the outbound account mail. SMTP settings come
// from the application config document when set there, falling back to the
// environment, so operators can rotate credentials without a redeploy.
package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/SynilogicTeam/kundliGen/internal/models"
)

type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ConfigSource yields the application config document per send, matching
// the per-request lookup the admin panel expects after a settings change.
type ConfigSource interface {
	Get() (*models.AppConfig, error)
}

type SMTPMailer struct {
	Env     Settings
	Configs ConfigSource
}

func NewSMTPMailer(env Settings, configs ConfigSource) *SMTPMailer {
	return &SMTPMailer{Env: env, Configs: configs}
}

func (m *SMTPMailer) Send(to string, subject string, htmlBody string) error {
	settings := m.settings()
	message := buildMessage(settings.From, to, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)
	fromAddr := parseAddress(settings.From)
	auth := smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)

	client, err := smtpClient(addr, settings.Host, settings.Port)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func (m *SMTPMailer) settings() Settings {
	settings := m.Env
	if m.Configs == nil {
		return settings
	}
	cfg, err := m.Configs.Get()
	if err != nil {
		return settings
	}
	if cfg.SMTPHost != "" {
		settings.Host = cfg.SMTPHost
	}
	if cfg.SMTPPort != 0 {
		settings.Port = cfg.SMTPPort
	}
	if cfg.SMTPUser != "" {
		settings.Username = cfg.SMTPUser
		settings.From = cfg.SMTPUser
	}
	if cfg.SMTPPassword != "" {
		settings.Password = cfg.SMTPPassword
	}
	return settings
}

func smtpClient(addr string, host string, port int) (*smtp.Client, error) {
	if port == 465 {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, host)
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return nil, err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
			_ = client.Close()
			return nil, err
		}
	}
	return client, nil
}

func buildMessage(from string, to string, subject string, body string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
		body,
	}
	return strings.Join(headers, "\r\n")
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
