package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/loga115/ticketflow/internal/config"
)

// serviceName tags every log line so ticketflow entries stay filterable when
// the output is aggregated with other services.
const serviceName = "ticketflow"

// NewLogger creates the process logger. LOG_LEVEL picks the threshold and
// LOG_FORMAT switches between json (the default, for aggregation) and
// console (for local runs). Unknown values fall back to info/json.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := "json"
	development := false
	if strings.EqualFold(cfg.Format, "console") {
		encoding = "console"
		development = true
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: development,
		Encoding:    encoding,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime: zapcore.ISO8601TimeEncoder,
		},
		InitialFields:    map[string]any{"service": serviceName},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}
