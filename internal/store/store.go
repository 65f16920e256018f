// Package store persists classification runs to a local ledger.
package store

import (
	"context"

	"github.com/openforis/whisp-go/internal/model"
)

// RunFilter narrows ListRuns.
type RunFilter struct {
	Input string // exact match on input name; empty matches all
	Limit int    // 0 = no limit
}

// Store is the run ledger.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	Close() error
}
