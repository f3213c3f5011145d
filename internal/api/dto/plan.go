package dto

import "github.com/weegaboo/agro-mvp/internal/domain"

type PlanRequest struct {
	Project string `json:"project"`
	// Aircraft, when present, overrides the aircraft stored with the
	// project for this plan only.
	Aircraft *domain.Aircraft `json:"aircraft"`
}

type RouteStepResponse struct {
	SwathID int `json:"swath_id"`
	Dir     int `json:"dir"`
}

type TripResponse struct {
	StartIdx    int     `json:"start_idx"`
	EndIdx      int     `json:"end_idx"`
	SwathCount  int     `json:"swath_count"`
	TransitLenM float64 `json:"transit_len_m"`
	FuelUsedL   float64 `json:"fuel_used_l"`
	MixUsedL    float64 `json:"mix_used_l"`
}

type PlanResponse struct {
	Project  string              `json:"project"`
	Route    []RouteStepResponse `json:"route"`
	Trips    []TripResponse      `json:"trips"`
	Estimate domain.Estimate     `json:"estimate"`
	Warnings []string            `json:"warnings"`
}

type ExportRequest struct {
	Project string `json:"project"`
	// Format is "wpl" (one QGC WPL 110 file per trip) or "kml".
	Format   string           `json:"format"`
	Aircraft *domain.Aircraft `json:"aircraft"`
}

type ExportResponse struct {
	Project string   `json:"project"`
	Format  string   `json:"format"`
	Files   []string `json:"files"`
}
