package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// watermillAdapter routes watermill's internal logs into zerolog.
type watermillAdapter struct {
	logger zerolog.Logger
}

// Watermill returns a watermill.LoggerAdapter backed by the global logger.
// Watermill info logs are demoted to debug; they are per-subscriber noise.
func Watermill() watermill.LoggerAdapter {
	return &watermillAdapter{logger: Component("watermill")}
}

func (a *watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (a *watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (a *watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (a *watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (a *watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillAdapter{logger: a.logger.With().Fields(map[string]any(fields)).Logger()}
}
