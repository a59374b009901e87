package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnv selects the minimum level written to stderr.
const LogLevelEnv = "EVCS_LOG_LEVEL"

func BuildProduction() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(fetchLogLevelByEnv())
	c.EncoderConfig.StacktraceKey = ""
	c.EncoderConfig.CallerKey = ""
	c.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	c.OutputPaths = []string{"stderr"}

	log, err := c.Build()
	if err != nil {
		return nil, err
	}
	return log, nil
}

// fetchLogLevelByEnv defaults to warn: the probe report goes to stdout and
// info-level request chatter would drown it.
func fetchLogLevelByEnv() zapcore.Level {
	loglevel := os.Getenv(LogLevelEnv)

	switch strings.ToLower(strings.TrimSpace(loglevel)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
