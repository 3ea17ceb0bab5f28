// Package api contains the HTTP API contract of the delivery tracker.
// Version v1 represents the current stable API version.
package api

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"deliverycli/pkg/contracts/domain"
)

// LatestToken selects the newest clean table on disk.
const LatestToken = "latest"

// DeliveryRequest selects one clean delivery table.
type DeliveryRequest struct {
	Date   string `json:"date" param:"date" validate:"required,target_date"`
	Series string `json:"series,omitempty" query:"series" validate:"omitempty,alphanum,max=8"`
}

// RankingRequest selects the ranking for one target date.
type RankingRequest struct {
	Date string `json:"date" param:"date" validate:"required,target_date"`
	Top  int    `json:"top,omitempty" query:"top" validate:"omitempty,min=1,max=1000"`
}

// NewValidator returns a validator that understands the target_date tag:
// TODAY in any case, latest, or a YYYY-MM-DD calendar date.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("target_date", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if strings.EqualFold(s, domain.TodayToken) || strings.EqualFold(s, LatestToken) {
			return true
		}
		_, err := time.Parse(domain.ISODateLayout, s)
		return err == nil
	})
	return v
}
