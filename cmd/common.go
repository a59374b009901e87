package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/evcs-platform/evcs-smoke/cmd/logger"
	"github.com/evcs-platform/evcs-smoke/internal"
	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/config"
	"github.com/evcs-platform/evcs-smoke/internal/telemetry"
	"github.com/evcs-platform/evcs-smoke/lib/varsource"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// session bundles what every backend-facing command needs.
type session struct {
	cfg      *config.Config
	client   *api.Client
	runID    string
	shutdown func(context.Context) error
}

func newSession(ctx context.Context) (*session, error) {
	parser := config.NewConfigParser(v)
	cfg, err := parser.Parse(cfgFile)
	if err != nil {
		return nil, err
	}
	if used := parser.ConfigFileUsed(); used != "" {
		logger.Logger.Debug("using config file", zap.String("path", used))
	}

	// credentials may reference ${env:...}, ${file:...} or AWS secrets
	err = varsource.New().ResolveAll(ctx, map[string]*string{
		"username": &cfg.Username,
		"password": &cfg.Password,
		"tenant":   &cfg.Tenant,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Password == "" {
		if cfg.Password, err = promptPassword(); err != nil {
			return nil, err
		}
	}

	runID := uuid.NewString()
	shutdown := telemetry.Setup(ctx, "evcs-smoke", internal.Version, logger.Logger)

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: telemetry.Transport(http.DefaultTransport),
	}

	client := api.NewClient(cfg.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithVersion(internal.Version),
		api.WithTraceID(runID),
		api.WithLogger(logger.Logger.With(zap.String("run_id", runID))),
	)

	return &session{cfg: cfg, client: client, runID: runID, shutdown: shutdown}, nil
}

func (s *session) close() {
	if err := s.shutdown(context.Background()); err != nil {
		logger.Logger.Warn("failed to flush traces", zap.Error(err))
	}
}

// promptPassword reads the password without echo when stdin is a terminal.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password configured and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	bytesPassword, err := term.ReadPassword(fd)
	fmt.Fprint(os.Stderr, "\n")
	if err != nil {
		return "", fmt.Errorf("error getting password from prompt: %w", err)
	}

	return string(bytesPassword), nil
}
