package api

import (
	"net/http"

	"deliverycli/pkg/contracts/domain"
)

// Ranking sources
const (
	SourceStored   = "stored"
	SourceComputed = "computed"
)

// DeliveryFile describes one clean table available on disk.
type DeliveryFile struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// DeliveryListResponse lists clean tables, newest first.
type DeliveryListResponse struct {
	Count int            `json:"count"`
	Files []DeliveryFile `json:"files"`
}

// Render implements render.Renderer
func (r *DeliveryListResponse) Render(w http.ResponseWriter, req *http.Request) error {
	return nil
}

// DeliveryResponse carries one clean table, optionally filtered by series.
type DeliveryResponse struct {
	Date    string                  `json:"date"`
	Series  string                  `json:"series,omitempty"`
	Count   int                     `json:"count"`
	Records []domain.DeliveryRecord `json:"records"`
}

// Render implements render.Renderer
func (r *DeliveryResponse) Render(w http.ResponseWriter, req *http.Request) error {
	return nil
}

// RankingResponse carries the day-over-day ranking for one date.
type RankingResponse struct {
	DateToday string               `json:"date_today"`
	DatePrev  string               `json:"date_prev"`
	Source    string               `json:"source"`
	Count     int                  `json:"count"`
	Entries   []domain.RankedEntry `json:"entries"`
}

// Render implements render.Renderer
func (r *RankingResponse) Render(w http.ResponseWriter, req *http.Request) error {
	return nil
}
