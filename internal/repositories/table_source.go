package repositories

import (
	"context"
	"fmt"

	"praenforce/internal/models"
	"praenforce/internal/reconciler"

	"github.com/jackc/pgx/v5"
)

// TableSource reads whole tables as loosely typed rows
type TableSource interface {
	Fetch(ctx context.Context, table string) ([]models.RawRecord, error)
	Ping(ctx context.Context) error
}

var allowedTables = map[string]struct{}{
	models.TableRestaurants:       {},
	models.TableNoticeFollowups:   {},
	models.TableSkipReasons:       {},
	models.TableComplianceUpdates: {},
}

type tableSource struct {
	db Database
}

func NewTableSource(db Database) TableSource {
	return &tableSource{db: db}
}

// Fetch returns every row of table in physical (ctid) order, so row positions
// are stable across reads of an unchanged table. Any failure, including an
// unknown table, is reported as a *reconciler.DataUnavailableError.
func (s *tableSource) Fetch(ctx context.Context, table string) ([]models.RawRecord, error) {
	if _, ok := allowedTables[table]; !ok {
		return nil, reconciler.Unavailable(table, fmt.Errorf("table not allowed"))
	}

	query := "SELECT * FROM " + pgx.Identifier{table}.Sanitize() + " ORDER BY ctid"
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, reconciler.Unavailable(table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, reconciler.Unavailable(table, err)
	}

	records := make([]models.RawRecord, 0, len(maps))
	for _, m := range maps {
		records = append(records, models.RawRecord(m))
	}
	return records, nil
}

func (s *tableSource) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
