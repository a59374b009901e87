package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/evcs-platform/evcs-smoke/internal/api/models"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:8080"

	LoginPath              = "/auth/login"
	RoleListPath           = "/auth/role/list"
	MenuListPath           = "/auth/menu/list"
	StationRankingPath     = "/dashboard/station-ranking"
	ChargerUtilizationPath = "/dashboard/charger-utilization"

	traceHeader = "X-Trace-Id"
)

// ErrNoToken is returned when a protected endpoint is called before Login.
var ErrNoToken = errors.New("no access token, please login first")

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithVersion(version string) Option {
	return func(c *Client) {
		c.version = version
	}
}

// WithTraceID tags every request with the given id so backend logs can be
// correlated with one smoke run.
func WithTraceID(id string) Option {
	return func(c *Client) {
		c.traceID = id
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client talks to the EVCS admin backend. The zero token is valid only for
// Login; WithAccessToken yields a copy usable for protected endpoints.
type Client struct {
	baseURL string
	token   string
	version string
	traceID string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) WithAccessToken(token string) *Client {
	if token == "" {
		return c
	}
	c2 := new(Client)
	*c2 = *c
	c2.token = token
	return c2
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for an API path.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Request sends one JSON request and decodes the body into target. Non-2xx
// responses become *HTTPError; the body is read in full so it can be shown.
func (c *Client) Request(ctx context.Context, method string, path string, target interface{}, data interface{}, requireAccessToken bool) error {
	if requireAccessToken && c.token == "" {
		return ErrNoToken
	}

	var body io.Reader
	if data != nil {
		jv, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(jv)
	}

	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "failed to create new http request object")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.traceID != "" {
		req.Header.Set(traceHeader, c.traceID)
	}
	if c.version != "" {
		req.Header.Set("User-Agent", "evcs-smoke/"+c.version)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, url)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("trace_id", c.traceID),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to read response body of %s %s", method, url)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       string(responseData),
		}
	}

	if target == nil || len(bytes.TrimSpace(responseData)) == 0 {
		return nil
	}

	if err := json.Unmarshal(responseData, target); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s %s", method, url)
	}

	return nil
}

// Login exchanges credentials for a session. An envelope with success=false
// becomes *AuthError carrying the server message.
func (c *Client) Login(ctx context.Context, form models.LoginRequest) (*models.Session, error) {
	var envelope models.Envelope[models.LoginResponse]
	if err := c.Request(ctx, http.MethodPost, LoginPath, &envelope, &form, false); err != nil {
		return nil, err
	}

	if !envelope.Success {
		return nil, &AuthError{Message: envelope.Message}
	}

	session := models.NewSession(envelope.Data)
	if session.AccessToken == "" {
		return nil, &AuthError{Message: "empty access token"}
	}

	return session, nil
}

func (c *Client) ListRoles(ctx context.Context) ([]models.Role, error) {
	return getList[models.Role](ctx, c, RoleListPath)
}

func (c *Client) ListMenus(ctx context.Context) ([]models.Menu, error) {
	return getList[models.Menu](ctx, c, MenuListPath)
}

func (c *Client) GetStationRanking(ctx context.Context) ([]models.StationRanking, error) {
	return getList[models.StationRanking](ctx, c, StationRankingPath)
}

func (c *Client) GetChargerUtilization(ctx context.Context) ([]models.ChargerUtilization, error) {
	return getList[models.ChargerUtilization](ctx, c, ChargerUtilizationPath)
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var envelope models.Envelope[[]T]
	if err := c.Request(ctx, http.MethodGet, path, &envelope, nil, true); err != nil {
		return nil, err
	}

	if !envelope.Success {
		return nil, &EnvelopeError{Code: envelope.Code, Message: envelope.Message}
	}

	if envelope.Data == nil {
		return []T{}, nil
	}

	return envelope.Data, nil
}
