// Package tonerecord implements tone record persistence using PostgreSQL.
// Every statement is scoped by owner_id.
package tonerecord

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	postgres "github.com/heartmarshall/tonememory/internal/adapter/postgres"
	"github.com/heartmarshall/tonememory/internal/domain"
)

const table = "tone_records"

var columns = []string{
	"id", "owner_id", "name", "amp", "cab", "guitar", "pedals", "notes", "tags", "created_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides tone record persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new tone record repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// List returns all records of the owner, newest first.
// Returns an empty slice (not nil) when the owner has no records.
func (r *Repo) List(ctx context.Context, ownerID string) ([]domain.ToneRecord, error) {
	query, args, err := psql.
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "tone_records", "")
	}
	defer rows.Close()

	records := []domain.ToneRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, postgres.MapError(err, "tone_records", "")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "tone_records", "")
	}

	return records, nil
}

// Insert persists a new record for the owner. The store assigns id and created_at.
func (r *Repo) Insert(ctx context.Context, ownerID string, t domain.NewTone) (*domain.ToneRecord, error) {
	query, args, err := psql.
		Insert(table).
		Columns("owner_id", "name", "amp", "cab", "guitar", "pedals", "notes", "tags").
		Values(ownerID, t.Name, t.Amp, t.Cab, t.Guitar, t.Pedals, t.Notes, t.Tags).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	rec, err := scanRecord(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "tone_record", "")
	}

	return &rec, nil
}

// Delete removes one record of the owner.
// Returns domain.ErrNotFound if the record does not exist or belongs to another owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	query, args, err := psql.
		Delete(table).
		Where(squirrel.And{
			squirrel.Eq{"id": id},
			squirrel.Eq{"owner_id": ownerID},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "tone_record", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tone_record %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanRecord(row pgx.Row) (domain.ToneRecord, error) {
	var (
		rec                                    domain.ToneRecord
		amp, cab, guitar, pedals, notes, tags pgtype.Text
	)

	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Name,
		&amp, &cab, &guitar, &pedals, &notes, &tags,
		&rec.CreatedAt,
	)
	if err != nil {
		return domain.ToneRecord{}, err
	}

	rec.Amp = textPtr(amp)
	rec.Cab = textPtr(cab)
	rec.Guitar = textPtr(guitar)
	rec.Pedals = textPtr(pedals)
	rec.Notes = textPtr(notes)
	rec.Tags = textPtr(tags)

	return rec, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
