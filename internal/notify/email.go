package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/jordan-wright/email"

	"masrofi/internal/core"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier mails danger alerts and debt reminders. Everything else is
// skipped so the inbox only sees what needs action.
type EmailNotifier struct {
	cfg  EmailConfig
	send func(e *email.Email) error
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	n := &EmailNotifier{cfg: cfg}
	addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	n.send = func(e *email.Email) error { return e.Send(addr, auth) }
	return n
}

// SplitAddresses parses a comma separated recipient list.
func SplitAddresses(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (n *EmailNotifier) wants(nt Notification) bool {
	return nt.Kind == KindDebtReminder || nt.Severity == string(core.SeverityDanger)
}

func (n *EmailNotifier) Notify(ctx context.Context, nt Notification) error {
	if !n.wants(nt) || len(n.cfg.To) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = n.cfg.To
	e.Subject = nt.Title
	body := nt.Body
	if nt.NotifyAt != nil {
		body += "\n\nScheduled for " + nt.NotifyAt.Format("2006-01-02 15:04")
	}
	e.Text = []byte(body)

	if err := n.send(e); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
