package models

type StationRanking struct {
	StationName string  `json:"stationName"`
	OrderCount  int64   `json:"orderCount"`
	Percentage  float64 `json:"percentage"`
}

type ChargerUtilization struct {
	ChargerCode     string  `json:"chargerCode"`
	StationName     string  `json:"stationName"`
	UtilizationRate float64 `json:"utilizationRate"`
}
