// Package model holds the shared domain types.
package model

import "time"

// Run records one classification run in the ledger.
type Run struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Rows      int       `json:"rows"`
	UnitMode  string    `json:"unit_mode"`
	Low       int       `json:"low"`
	MoreInfo  int       `json:"more_info_needed"`
	High      int       `json:"high"`
	CreatedAt time.Time `json:"created_at"`

	// Thresholds in indicator order 1..4, recorded for reproducibility.
	Thresholds [4]float64 `json:"thresholds"`
}
