package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/tonememory/internal/domain"
)

// NewOwnerID returns an owner id that no other test uses.
func NewOwnerID() string {
	return "owner-" + uuid.New().String()
}

// SeedToneRecord inserts a record with an explicit created_at so tests can
// control ordering. Only the name is set; optional fields stay NULL.
func SeedToneRecord(t *testing.T, pool *pgxpool.Pool, ownerID, name string, createdAt time.Time) domain.ToneRecord {
	t.Helper()

	rec := domain.ToneRecord{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO tone_records (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.OwnerID, rec.Name, rec.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedToneRecord: %v", err)
	}

	return rec
}
