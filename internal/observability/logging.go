package observability

import (
	"log/slog"

	"github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-wind-scan/internal/config"
)

// NewLogger creates a structured logger based on config and sets it as the default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
}
