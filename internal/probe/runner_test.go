package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/api/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureToken = "fixture-access-token-0123456789-abcdefghijklmnop"

var fixtureCreds = models.LoginRequest{Username: "admin", Password: "password", TenantCode: "SYSTEM"}

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type backend struct {
	t        *testing.T
	mu       sync.Mutex
	hits     map[string]int
	handlers map[string]http.HandlerFunc
}

// newBackend serves a healthy EVCS backend; override replaces single routes.
func newBackend(t *testing.T, override map[string]http.HandlerFunc) (*backend, *httptest.Server) {
	t.Helper()

	b := &backend{t: t, hits: map[string]int{}}
	b.handlers = map[string]http.HandlerFunc{
		api.LoginPath: func(w http.ResponseWriter, r *http.Request) {
			var form models.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
			if form.Password != fixtureCreds.Password {
				b.envelope(w, false, "invalid username or password", nil)
				return
			}
			b.envelope(w, true, "ok", map[string]interface{}{
				"accessToken": fixtureToken,
				"user":        map[string]interface{}{"username": form.Username, "tenantId": 1},
			})
		},
		api.RoleListPath: func(w http.ResponseWriter, r *http.Request) {
			b.envelope(w, true, "ok", []models.Role{
				{RoleName: "Administrator", RoleCode: "ADMIN", Status: 1},
				{RoleName: "Operator", RoleCode: "OPS", Status: 0},
			})
		},
		api.MenuListPath: func(w http.ResponseWriter, r *http.Request) {
			b.envelope(w, true, "ok", menus(3))
		},
		api.StationRankingPath: func(w http.ResponseWriter, r *http.Request) {
			b.envelope(w, true, "ok", []models.StationRanking{
				{StationName: "North Hub", OrderCount: 120, Percentage: 40},
				{StationName: "Harbor", OrderCount: 45, Percentage: 12.5},
			})
		},
		api.ChargerUtilizationPath: func(w http.ResponseWriter, r *http.Request) {
			b.envelope(w, true, "ok", []models.ChargerUtilization{
				{ChargerCode: "CP-001", StationName: "North Hub", UtilizationRate: 87.25},
			})
		},
	}
	for path, h := range override {
		b.handlers[path] = h
	}

	mux := http.NewServeMux()
	for path := range b.handlers {
		path := path
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[path]++
			b.mu.Unlock()
			if path != api.LoginPath {
				assert.Equal(t, "Bearer "+fixtureToken, r.Header.Get("Authorization"))
			}
			b.handlers[path](w, r)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) envelope(w http.ResponseWriter, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(b.t, json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	}))
}

func (b *backend) hit(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func menus(n int) []models.Menu {
	out := make([]models.Menu, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Menu{MenuName: fmt.Sprintf("Menu %d", i+1), MenuType: i % 2, Visible: 1})
	}
	return out
}

func serverError(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// section returns the lines printed under the heading containing title, up to
// the next heading or the closing rule.
func section(out, title string) []string {
	var lines []string
	in := false
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "=== ") {
			in = strings.Contains(line, title)
			continue
		}
		if strings.HasPrefix(line, "=====") {
			in = false
		}
		if in && line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func itemLines(lines []string) []string {
	var items []string
	for _, line := range lines {
		if strings.HasPrefix(line, "  - ") {
			items = append(items, line)
		}
	}
	return items
}

func newTestRunner(srv *httptest.Server, out io.Writer, opts Options) *Runner {
	return NewRunner(api.NewClient(srv.URL), out, nil, opts)
}

func TestRunner_HappyPath(t *testing.T) {
	b, srv := newBackend(t, nil)
	var out bytes.Buffer

	report, err := newTestRunner(srv, &out, Options{RunID: "run-1", MenuLimit: 5}).Run(context.Background(), fixtureCreds)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, "run-1", report.RunID)
	require.NotNil(t, report.Session)
	assert.Equal(t, fixtureToken, report.Session.AccessToken)
	assert.Equal(t, int64(1), report.Session.TenantID)
	require.Len(t, report.Results, 4)
	assert.Empty(t, report.Skipped)

	text := out.String()
	assert.Contains(t, text, "✓ login OK: admin (tenant id: 1)")
	assert.Contains(t, text, "request URL: "+srv.URL+"/auth/role/list")
	assert.Contains(t, text, "token prefix: "+fixtureToken[:30]+"...")

	assert.Equal(t, []string{
		"  - Administrator (ADMIN) - status: enabled",
		"  - Operator (OPS) - status: disabled",
	}, itemLines(section(text, "Role list")))
	assert.Equal(t, []string{
		"  - Menu 1 (type: directory) - visible: yes",
		"  - Menu 2 (type: menu) - visible: yes",
		"  - Menu 3 (type: directory) - visible: yes",
	}, itemLines(section(text, "Menu list")))
	assert.Equal(t, []string{
		"  - North Hub: 120 orders (40%)",
		"  - Harbor: 45 orders (12.5%)",
	}, itemLines(section(text, "Station ranking")))
	assert.Equal(t, []string{
		"  - CP-001 (North Hub): utilization 87.25%",
	}, itemLines(section(text, "Charger utilization")))
	assert.Contains(t, text, "✓ all 4 API checks passed!")

	for _, path := range []string{api.LoginPath, api.RoleListPath, api.MenuListPath, api.StationRankingPath, api.ChargerUtilizationPath} {
		assert.Equal(t, 1, b.hit(path), path)
	}
}

func TestRunner_InvalidCredentialsStopBeforeProbes(t *testing.T) {
	b, srv := newBackend(t, nil)
	var out bytes.Buffer

	creds := fixtureCreds
	creds.Password = "wrong"
	report, err := newTestRunner(srv, &out, Options{MenuLimit: 5}).Run(context.Background(), creds)

	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "invalid username or password")
	assert.Contains(t, out.String(), "✗ login failed: invalid username or password")

	assert.False(t, report.OK())
	assert.Nil(t, report.Session)
	assert.Empty(t, report.Results)
	assert.Equal(t, Names(), report.Skipped)

	assert.Equal(t, 1, b.hit(api.LoginPath))
	for _, path := range []string{api.RoleListPath, api.MenuListPath, api.StationRankingPath, api.ChargerUtilizationPath} {
		assert.Zero(t, b.hit(path), path)
	}
}

func TestRunner_LoginHTTPError(t *testing.T) {
	_, srv := newBackend(t, map[string]http.HandlerFunc{
		api.LoginPath: serverError(http.StatusBadGateway, "gateway exploded"),
	})
	var out bytes.Buffer

	_, err := newTestRunner(srv, &out, Options{}).Run(context.Background(), fixtureCreds)

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Contains(t, out.String(), "✗ login HTTP error 502: gateway exploded")
}

func TestRunner_EmptyLists(t *testing.T) {
	var b *backend
	emptyList := func(w http.ResponseWriter, r *http.Request) {
		b.envelope(w, true, "ok", []interface{}{})
	}
	b, srv := newBackend(t, map[string]http.HandlerFunc{
		api.RoleListPath:           emptyList,
		api.MenuListPath:           emptyList,
		api.StationRankingPath:     emptyList,
		api.ChargerUtilizationPath: emptyList,
	})
	var out bytes.Buffer

	report, err := newTestRunner(srv, &out, Options{MenuLimit: 5}).Run(context.Background(), fixtureCreds)
	require.NoError(t, err)
	assert.True(t, report.OK())

	text := out.String()
	for _, tc := range []struct{ title, noun string }{
		{"Role list", "roles"},
		{"Menu list", "menus"},
		{"Station ranking", "stations"},
		{"Charger utilization", "chargers"},
	} {
		lines := section(text, tc.title)
		assert.Contains(t, lines, "✓ OK! returned 0 "+tc.noun+":", tc.title)
		assert.Empty(t, itemLines(lines), tc.title)
		for _, line := range lines {
			assert.NotContains(t, line, "more", tc.title)
		}
	}
	for _, res := range report.Results {
		assert.Zero(t, res.Items, res.Name)
	}
}

func TestRunner_MenuLimit(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		wantItems int
		wantMore  string
	}{
		{name: "fewer than limit", total: 4, limit: 5, wantItems: 4},
		{name: "exactly limit", total: 5, limit: 5, wantItems: 5},
		{name: "more than limit", total: 12, limit: 5, wantItems: 5, wantMore: "  ... 7 more menus"},
		{name: "one over", total: 6, limit: 5, wantItems: 5, wantMore: "  ... 1 more menus"},
		{name: "zero shows all", total: 12, limit: 0, wantItems: 12},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var b *backend
			b, srv := newBackend(t, map[string]http.HandlerFunc{
				api.MenuListPath: func(w http.ResponseWriter, r *http.Request) {
					b.envelope(w, true, "ok", menus(test.total))
				},
			})
			var out bytes.Buffer

			probes, err := Select([]string{NameMenus})
			require.NoError(t, err)
			report, err := newTestRunner(srv, &out, Options{MenuLimit: test.limit, Probes: probes}).Run(context.Background(), fixtureCreds)
			require.NoError(t, err)

			lines := section(out.String(), "Menu list")
			assert.Len(t, itemLines(lines), test.wantItems)
			assert.Contains(t, lines, fmt.Sprintf("✓ OK! returned %d menus:", test.total))

			var more []string
			for _, line := range lines {
				if strings.Contains(line, "more menus") {
					more = append(more, line)
				}
			}
			if test.wantMore == "" {
				assert.Empty(t, more)
			} else {
				assert.Equal(t, []string{test.wantMore}, more)
			}

			require.Len(t, report.Results, 1)
			assert.Equal(t, test.total, report.Results[0].Items)
		})
	}
}

func TestRunner_ProbeFailuresAreRecoverable(t *testing.T) {
	var b *backend
	b, srv := newBackend(t, map[string]http.HandlerFunc{
		api.RoleListPath:       serverError(http.StatusInternalServerError, `{"error":"db down"}`),
		api.MenuListPath:       func(w http.ResponseWriter, r *http.Request) { b.envelope(w, false, "menu service unavailable", nil) },
		api.StationRankingPath: serverError(http.StatusForbidden, "no dashboard access"),
	})
	var out bytes.Buffer

	report, err := newTestRunner(srv, &out, Options{MenuLimit: 5}).Run(context.Background(), fixtureCreds)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, section(text, "Role list"), "✗ HTTP error 500: Internal Server Error")
	assert.Contains(t, section(text, "Role list"), `response body: {"error":"db down"}`)
	assert.Contains(t, section(text, "Menu list"), "✗ failed: menu service unavailable")
	assert.Contains(t, section(text, "Station ranking"), "✗ HTTP error 403: Forbidden")
	assert.Contains(t, section(text, "Station ranking"), "response body: no dashboard access")
	assert.Contains(t, section(text, "Charger utilization"), "✓ OK! returned 1 chargers:")
	assert.Contains(t, text, "✗ 3 of 4 API checks failed, 0 skipped")

	assert.False(t, report.OK())
	assert.Equal(t, 3, report.Failed())
	assert.Empty(t, report.Skipped)
	assert.Equal(t, http.StatusInternalServerError, report.Results[0].StatusCode)
	assert.Zero(t, report.Results[1].StatusCode)
	assert.Equal(t, http.StatusForbidden, report.Results[2].StatusCode)
	assert.Equal(t, 1, b.hit(api.ChargerUtilizationPath))
}

func TestRunner_FailFast(t *testing.T) {
	for _, failing := range []string{api.RoleListPath, api.StationRankingPath} {
		t.Run(failing, func(t *testing.T) {
			b, srv := newBackend(t, map[string]http.HandlerFunc{
				failing: serverError(http.StatusServiceUnavailable, "maintenance"),
			})
			var out bytes.Buffer

			report, err := newTestRunner(srv, &out, Options{MenuLimit: 5, FailFast: true}).Run(context.Background(), fixtureCreds)
			require.NoError(t, err)
			assert.False(t, report.OK())

			var ran []string
			for _, res := range report.Results {
				ran = append(ran, res.Endpoint)
			}
			require.NotEmpty(t, ran)
			assert.Equal(t, failing, ran[len(ran)-1])

			all := []string{api.RoleListPath, api.MenuListPath, api.StationRankingPath, api.ChargerUtilizationPath}
			for i, path := range all {
				if i < len(ran) {
					assert.Equal(t, 1, b.hit(path), path)
				} else {
					assert.Zero(t, b.hit(path), path)
				}
			}
			assert.Len(t, report.Skipped, len(all)-len(ran))
		})
	}
}

func TestRunner_CancelledContextSkipsProbes(t *testing.T) {
	b, srv := newBackend(t, nil)
	runner := newTestRunner(srv, io.Discard, Options{MenuLimit: 5})

	session, err := runner.Login(context.Background(), fixtureCreds)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := &Report{}
	runner.RunProbes(ctx, session, report)

	assert.Empty(t, report.Results)
	assert.Equal(t, Names(), report.Skipped)
	assert.Zero(t, b.hit(api.RoleListPath))
}
