package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidator_TargetDate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     RankingRequest
		wantErr bool
	}{
		{name: "iso date", req: RankingRequest{Date: "2025-10-17"}},
		{name: "today", req: RankingRequest{Date: "today"}},
		{name: "latest", req: RankingRequest{Date: "LATEST"}},
		{name: "archive stamp", req: RankingRequest{Date: "17102025"}, wantErr: true},
		{name: "impossible date", req: RankingRequest{Date: "2025-02-30"}, wantErr: true},
		{name: "empty", req: RankingRequest{}, wantErr: true},
		{name: "top out of range", req: RankingRequest{Date: "2025-10-17", Top: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewValidator_DeliverySeries(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Struct(DeliveryRequest{Date: "latest", Series: "EQ"}))
	assert.Error(t, v.Struct(DeliveryRequest{Date: "latest", Series: "E Q"}))
}
