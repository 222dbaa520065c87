package dailyreport

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/dailyreport/pkg/errors"
)

// NotifierConfig holds the sender identity. The sender is also the recipient.
type NotifierConfig struct {
	User     string
	Password string
	Subject  string
}

// Notifier emails a report as HTML.
type Notifier struct {
	cfg      NotifierConfig
	mailer   Mailer
	renderer Renderer
	logger   *slog.Logger
}

// NewNotifier wires the notifier.
func NewNotifier(cfg NotifierConfig, mailer Mailer, renderer Renderer, logger *slog.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		mailer:   mailer,
		renderer: renderer,
		logger:   logger.With("component", "dailyreport.notifier"),
	}
}

// Notify renders markdown and sends it. Empty content or missing credentials
// return an error without touching the mailer.
func (n *Notifier) Notify(ctx context.Context, markdown string) error {
	if strings.TrimSpace(markdown) == "" {
		n.logger.Error("no content to send")
		return apperrors.Wrap(apperrors.CodeNotify, "no content to send", nil)
	}
	if n.cfg.User == "" || n.cfg.Password == "" {
		n.logger.Error("email credentials missing")
		return apperrors.Wrap(apperrors.CodeNotify, "email credentials missing", nil)
	}

	html, err := n.renderer.Render(markdown)
	if err != nil {
		n.logger.Error("render markdown failed", "error", err)
		return apperrors.Wrap(apperrors.CodeNotify, "render markdown", err)
	}

	msg := Message{
		From:    n.cfg.User,
		To:      n.cfg.User,
		Subject: n.cfg.Subject,
		HTML:    html,
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("error sending email", "error", err)
		return apperrors.Wrap(apperrors.CodeNotify, "send email", err)
	}
	n.logger.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
