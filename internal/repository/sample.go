package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/webdemo/webdemo/internal/model"
)

const listSamplesQuery = `SELECT id, name FROM sample ORDER BY id`

// ListSamples returns every row of the sample table.
// The result is never nil so it encodes as [] when the table is empty.
func (r *Repository) ListSamples(ctx context.Context) ([]model.Sample, error) {
	rows, err := r.pool.Query(ctx, listSamplesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}

	samples, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Sample])
	if err != nil {
		return nil, fmt.Errorf("failed to scan samples: %w", err)
	}

	if samples == nil {
		samples = []model.Sample{}
	}

	return samples, nil
}
