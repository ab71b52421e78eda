// Package notify delivers flood alerts through shoutrrr service URLs
// (Slack, Telegram, ntfy, generic webhooks, ...).
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Alerter implements domain.Alerter by fanning a message out to every
// configured service.
type Alerter struct {
	sender *router.ServiceRouter
	logger *slog.Logger
}

// NewAlerter validates urls and builds a sender. timeout bounds each send.
func NewAlerter(urls []string, timeout time.Duration, logger *slog.Logger) (*Alerter, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one alert URL is required")
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create alert sender: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &Alerter{sender: sender, logger: logger}, nil
}

// Alert sends one flood warning. The first service error is returned.
func (a *Alerter) Alert(ctx context.Context, assessment domain.RiskAssessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := stypes.Params{}
	params.SetTitle(Title(assessment))
	for _, err := range a.sender.Send(Message(assessment), &params) {
		if err != nil {
			return fmt.Errorf("send flood alert: %w", err)
		}
	}
	a.logger.Info("flood alert sent", "station", assessment.Station, "risk_percentage", assessment.RiskPercentage)
	return nil
}

// Title is the notification subject for an assessment.
func Title(a domain.RiskAssessment) string {
	return "Flood warning: " + a.Station
}

// Message is the notification body for an assessment.
func Message(a domain.RiskAssessment) string {
	return fmt.Sprintf("Flood predicted at %s for %04d-%02d (risk %.2f%%). Assessed %s.",
		a.Station, a.Year, a.Month, a.RiskPercentage, a.AssessedAt.Format(time.RFC3339))
}
