package probe

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/api/models"
	"go.uber.org/zap"
)

// TokenPrefixLen is how much of the token the role probe echoes.
const TokenPrefixLen = 30

type Options struct {
	RunID string
	// MenuLimit caps the item lines of limited probes; 0 shows everything.
	MenuLimit int
	// FailFast stops the run after the first failing probe. Without it every
	// probe failure is reported and the run moves on.
	FailFast bool
	Probes   []Probe
}

// Runner performs one smoke run: login, then each probe in order.
type Runner struct {
	client *api.Client
	out    *Printer
	log    *zap.Logger
	opts   Options
}

func NewRunner(client *api.Client, out io.Writer, log *zap.Logger, opts Options) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Probes == nil {
		opts.Probes = All()
	}
	return &Runner{
		client: client,
		out:    NewPrinter(out),
		log:    log,
		opts:   opts,
	}
}

// Login authenticates and prints the outcome. No probe may run unless it
// succeeds.
func (r *Runner) Login(ctx context.Context, creds models.LoginRequest) (*models.Session, error) {
	session, err := r.client.Login(ctx, creds)
	if err != nil {
		var authErr *api.AuthError
		var httpErr *api.HTTPError
		switch {
		case errors.As(err, &authErr):
			r.out.Failure("login failed: %s", authErr.Message)
		case errors.As(err, &httpErr):
			r.out.Failure("login HTTP error %d: %s", httpErr.StatusCode, httpErr.Body)
		default:
			r.out.Failure("login error: %v", err)
		}
		r.log.Warn("login failed", zap.String("username", creds.Username), zap.String("tenant", creds.TenantCode), zap.Error(err))
		return nil, err
	}

	r.out.Success("login OK: %s (tenant id: %d)", session.Username, session.TenantID)
	return session, nil
}

// Run logs in and executes the selected probes. The returned error is only
// set when login failed; probe failures are recorded in the report.
func (r *Runner) Run(ctx context.Context, creds models.LoginRequest) (*Report, error) {
	report := &Report{
		RunID:   r.opts.RunID,
		BaseURL: r.client.BaseURL(),
		Results: []Result{},
	}

	session, err := r.Login(ctx, creds)
	if err != nil {
		report.LoginError = err.Error()
		for _, p := range r.opts.Probes {
			report.Skipped = append(report.Skipped, p.Name)
		}
		return report, err
	}
	report.Session = session

	r.RunProbes(ctx, session, report)
	r.summarize(report)

	return report, nil
}

// RunProbes executes the selected probes with the session token and appends
// their results to report.
func (r *Runner) RunProbes(ctx context.Context, session *models.Session, report *Report) {
	client := r.client.WithAccessToken(session.AccessToken)

	for i, p := range r.opts.Probes {
		if ctx.Err() != nil {
			report.Skipped = append(report.Skipped, p.Name)
			continue
		}

		r.out.Heading(i+1, p.Title)
		if p.ShowRequest {
			r.out.Printf("request URL: %s\n", client.URL(p.Endpoint))
			r.out.Printf("token prefix: %s...\n", session.TokenPrefix(TokenPrefixLen))
		}

		res := r.runProbe(ctx, client, p)
		report.add(res)

		if !res.OK && r.opts.FailFast {
			for _, rest := range r.opts.Probes[i+1:] {
				report.Skipped = append(report.Skipped, rest.Name)
			}
			break
		}
	}
}

func (r *Runner) runProbe(ctx context.Context, client *api.Client, p Probe) Result {
	res := Result{Name: p.Name, Endpoint: p.Endpoint}

	start := time.Now()
	lines, err := p.fetch(ctx, client)
	res.Duration = time.Since(start)

	if err != nil {
		res.Error = err.Error()
		r.printFailure(err, &res)
		r.log.Warn("probe failed", zap.String("probe", p.Name), zap.String("run_id", r.opts.RunID), zap.Error(err))
		return res
	}

	res.OK = true
	res.Items = len(lines)
	r.out.Success("OK! returned %d %s:", len(lines), p.Noun)

	shown := lines
	if p.Limited && r.opts.MenuLimit > 0 && len(lines) > r.opts.MenuLimit {
		shown = lines[:r.opts.MenuLimit]
	}
	for _, line := range shown {
		r.out.Item(line)
	}
	if more := len(lines) - len(shown); more > 0 {
		r.out.Printf("  ... %d more %s\n", more, p.Noun)
	}

	r.log.Debug("probe succeeded", zap.String("probe", p.Name), zap.Int("items", res.Items), zap.Duration("duration", res.Duration))
	return res
}

func (r *Runner) printFailure(err error, res *Result) {
	var envErr *api.EnvelopeError
	var httpErr *api.HTTPError
	switch {
	case errors.As(err, &envErr):
		r.out.Failure("failed: %s", envErr.Message)
	case errors.As(err, &httpErr):
		res.StatusCode = httpErr.StatusCode
		r.out.Failure("HTTP error %d: %s", httpErr.StatusCode, httpErr.Status)
		r.out.Printf("response body: %s\n", httpErr.Body)
	default:
		r.out.Failure("error: %v", err)
	}
}

func (r *Runner) summarize(report *Report) {
	r.out.Rule()
	total := len(report.Results) + len(report.Skipped)
	if report.OK() {
		r.out.Success("all %d API checks passed!", total)
		return
	}
	r.out.Failure("%d of %d API checks failed, %d skipped", report.Failed(), total, len(report.Skipped))
}
