// Package probe runs the read-only endpoint checks of a smoke run and
// records their outcome.
package probe

import (
	"context"
	"fmt"
	"strconv"

	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/api/models"
)

const (
	NameRoles              = "roles"
	NameMenus              = "menus"
	NameStationRanking     = "station-ranking"
	NameChargerUtilization = "charger-utilization"
)

// Probe is one authenticated GET whose payload is rendered as item lines.
type Probe struct {
	Name     string
	Title    string
	Endpoint string
	Noun     string

	// Limited probes print at most Options.MenuLimit item lines.
	Limited bool
	// ShowRequest prints the request URL and a token prefix before the call.
	ShowRequest bool

	fetch func(ctx context.Context, c *api.Client) ([]string, error)
}

func newProbe[T any](p Probe, fetch func(*api.Client, context.Context) ([]T, error), line func(T) string) Probe {
	p.fetch = func(ctx context.Context, c *api.Client) ([]string, error) {
		items, err := fetch(c, ctx)
		if err != nil {
			return nil, err
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			lines = append(lines, line(item))
		}
		return lines, nil
	}
	return p
}

// All returns every probe in run order.
func All() []Probe {
	return []Probe{
		newProbe(Probe{
			Name:        NameRoles,
			Title:       "Role list API",
			Endpoint:    api.RoleListPath,
			Noun:        "roles",
			ShowRequest: true,
		}, (*api.Client).ListRoles, roleLine),
		newProbe(Probe{
			Name:     NameMenus,
			Title:    "Menu list API",
			Endpoint: api.MenuListPath,
			Noun:     "menus",
			Limited:  true,
		}, (*api.Client).ListMenus, menuLine),
		newProbe(Probe{
			Name:     NameStationRanking,
			Title:    "Station ranking API",
			Endpoint: api.StationRankingPath,
			Noun:     "stations",
		}, (*api.Client).GetStationRanking, stationRankingLine),
		newProbe(Probe{
			Name:     NameChargerUtilization,
			Title:    "Charger utilization API",
			Endpoint: api.ChargerUtilizationPath,
			Noun:     "chargers",
		}, (*api.Client).GetChargerUtilization, chargerUtilizationLine),
	}
}

func Names() []string {
	probes := All()
	names := make([]string, 0, len(probes))
	for _, p := range probes {
		names = append(names, p.Name)
	}
	return names
}

// Select keeps the named probes in run order. No names selects all of them.
func Select(names []string) ([]Probe, error) {
	if len(names) == 0 {
		return All(), nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []Probe
	for _, p := range All() {
		if wanted[p.Name] {
			selected = append(selected, p)
			delete(wanted, p.Name)
		}
	}

	for _, name := range names {
		if wanted[name] {
			return nil, fmt.Errorf("unknown probe %q, valid probes are %v", name, Names())
		}
	}

	return selected, nil
}

func roleLine(r models.Role) string {
	status := "disabled"
	if r.Enabled() {
		status = "enabled"
	}
	return fmt.Sprintf("%s (%s) - status: %s", r.RoleName, r.RoleCode, status)
}

func menuLine(m models.Menu) string {
	menuType := "menu"
	if m.IsDirectory() {
		menuType = "directory"
	}
	visible := "no"
	if m.IsVisible() {
		visible = "yes"
	}
	return fmt.Sprintf("%s (type: %s) - visible: %s", m.MenuName, menuType, visible)
}

func stationRankingLine(s models.StationRanking) string {
	return fmt.Sprintf("%s: %d orders (%s%%)", s.StationName, s.OrderCount, formatNumber(s.Percentage))
}

func chargerUtilizationLine(c models.ChargerUtilization) string {
	return fmt.Sprintf("%s (%s): utilization %s%%", c.ChargerCode, c.StationName, formatNumber(c.UtilizationRate))
}

// formatNumber prints 40 as "40" and 12.5 as "12.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
