// Package mail delivers notification emails. The only shipped transport
// writes structured log lines; real SMTP or provider transports plug in
// behind the same interface.
package mail

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/artorders/artorders-backend/pkg/config"
	"github.com/artorders/artorders-backend/pkg/logger"
)

// LogMailer records outbound mail as log entries. Useful for development
// and for environments where mail delivery is handled downstream.
type LogMailer struct {
	cfg  config.MailConfig
	logg *logger.Logger
}

func NewLogMailer(cfg config.MailConfig, logg *logger.Logger) (*LogMailer, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &LogMailer{cfg: cfg, logg: logg}, nil
}

func (m *LogMailer) Send(ctx context.Context, userID uuid.UUID, subject, body string) error {
	fields := map[string]any{
		"recipient_user_id": userID.String(),
		"subject":           subject,
		"body_length":       len(body),
		"from_email":        m.cfg.FromEmail,
		"from_name":         m.cfg.FromName,
	}
	m.logg.Info(m.logg.WithFields(ctx, fields), "outbound mail")
	return nil
}
