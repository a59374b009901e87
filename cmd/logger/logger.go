package logger

import (
	"log"

	"github.com/evcs-platform/evcs-smoke/internal/logging"
	"go.uber.org/zap"
)

// Logger is the process-wide structured logger. It writes JSON to stderr so
// stdout carries only the probe report.
var Logger *zap.Logger

func init() {
	var err error
	Logger, err = logging.BuildProduction()
	if err != nil {
		log.Fatalf("can't initialize logger: %v", err)
	}
}
