package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"

	"aptcli/internal/errors"
	"aptcli/pkg/contracts/domain"
)

const insertBatchSize = 100

// PostgresWriter loads cleaned listings into a PostgreSQL table with
// replace semantics: each load clears the table first.
type PostgresWriter struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresWriter opens a connection, verifies it and ensures the
// apartments table exists.
func NewPostgresWriter(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorageError("failed to open postgres connection", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to reach postgres", err)
	}

	pw := &PostgresWriter{db: db, logger: logger}
	if err := pw.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to migrate schema", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS apartments (
			id                SERIAL PRIMARY KEY,
			listing_id        TEXT UNIQUE NOT NULL,
			city              TEXT NOT NULL,
			offer_year        INTEGER,
			building_type     TEXT,
			square_meters     NUMERIC(10,2),
			rooms             NUMERIC(4,1),
			floor             NUMERIC(5,1),
			floor_count       NUMERIC(5,1),
			build_year        NUMERIC(6,1),
			latitude          NUMERIC(9,6),
			longitude         NUMERIC(9,6),
			centre_distance   NUMERIC(8,3),
			ownership         TEXT,
			building_material TEXT,
			condition         TEXT,
			has_elevator      TEXT,
			price             NUMERIC(14,2),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_apartments_city  ON apartments(city);
		CREATE INDEX IF NOT EXISTS idx_apartments_price ON apartments(price);
	`)
	return err
}

// ReplaceListings clears the apartments table and batch-inserts the given
// listings.
func (pw *PostgresWriter) ReplaceListings(ctx context.Context, listings []domain.Listing) error {
	if _, err := pw.db.ExecContext(ctx, "DELETE FROM apartments"); err != nil {
		return errors.NewStorageError("failed to clear apartments table", err)
	}

	for i := 0; i < len(listings); i += insertBatchSize {
		end := i + insertBatchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(ctx, listings[i:end]); err != nil {
			return err
		}
	}

	pw.logger.InfoContext(ctx, "Loaded listings into postgres",
		slog.Int("record_count", len(listings)))

	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, batch []domain.Listing) error {
	const cols = 17

	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx := range batch {
		l := &batch[idx]
		base := idx * cols

		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		valueArgs = append(valueArgs,
			l.ID, l.City, nullInt(l.Year), nullString(l.Type),
			nullFloat(l.SquareMeters), nullFloat(l.Rooms), nullFloat(l.Floor),
			nullFloat(l.FloorCount), nullFloat(l.BuildYear),
			nullFloat(l.Latitude), nullFloat(l.Longitude),
			nullFloat(l.CentreDistance), nullString(l.Ownership),
			nullString(l.BuildingMaterial), nullString(l.Condition),
			nullString(l.HasElevator), nullFloat(l.Price),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO apartments (
			listing_id, city, offer_year, building_type, square_meters, rooms,
			floor, floor_count, build_year, latitude, longitude,
			centre_distance, ownership, building_material, condition,
			has_elevator, price
		)
		VALUES %s
		ON CONFLICT (listing_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return errors.NewStorageError("failed to insert listing batch", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullFloat(v float64) sql.NullFloat64 {
	if domain.Missing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullInt(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}
