// Package records reads and writes tone records for one owner at a time.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/pkg/ctxutil"
)

type toneRepo interface {
	List(ctx context.Context, ownerID string) ([]domain.ToneRecord, error)
	Insert(ctx context.Context, ownerID string, tone domain.NewTone) (*domain.ToneRecord, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Service implements owner-scoped tone record operations.
type Service struct {
	log     *slog.Logger
	tones   toneRepo
	timeout time.Duration
}

// NewService creates a records service. Every store call waits at most timeout.
func NewService(logger *slog.Logger, tones toneRepo, timeout time.Duration) *Service {
	return &Service{
		log:     logger.With("service", "records"),
		tones:   tones,
		timeout: timeout,
	}
}

// ListFor returns every record of the owner, newest first.
// Records reported for another owner are dropped.
func (s *Service) ListFor(ctx context.Context, ownerID string) ([]domain.ToneRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	ctx = ctxutil.WithOwnerID(ctx, ownerID)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	recs, err := s.tones.List(ctx, ownerID)
	if err != nil {
		return nil, storeError("list records", err)
	}

	scoped := make([]domain.ToneRecord, 0, len(recs))
	for _, r := range recs {
		if r.OwnerID != ownerID {
			s.log.WarnContext(ctx, "dropped record of another owner",
				slog.String("record_id", r.ID),
				slog.String("record_owner", r.OwnerID),
			)
			continue
		}
		scoped = append(scoped, r)
	}

	SortNewestFirst(scoped)
	return scoped, nil
}

// Insert validates the draft and persists it for the owner.
func (s *Service) Insert(ctx context.Context, ownerID string, draft domain.Draft) (*domain.ToneRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := draft.ValidateForCommit(); err != nil {
		return nil, err
	}
	ctx = ctxutil.WithOwnerID(ctx, ownerID)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.tones.Insert(ctx, ownerID, draft.Normalize())
	if err != nil {
		return nil, storeError("insert record", err)
	}
	if rec.OwnerID != ownerID {
		return nil, fmt.Errorf("insert record: %w: owner mismatch", domain.ErrStore)
	}

	s.log.InfoContext(ctx, "tone record created",
		slog.String("record_id", rec.ID),
		slog.String("name", rec.Name),
	)
	return rec, nil
}

// Delete removes one record of the owner. Unknown ids and records of other
// owners both report domain.ErrNotFound.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError("id", "required")
	}
	ctx = ctxutil.WithOwnerID(ctx, ownerID)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.tones.Delete(ctx, ownerID, id); err != nil {
		return storeError("delete record", err)
	}

	s.log.InfoContext(ctx, "tone record deleted", slog.String("record_id", id))
	return nil
}

// SortNewestFirst orders records by CreatedAt descending.
// Records with equal timestamps keep their relative order.
func SortNewestFirst(recs []domain.ToneRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

// storeError keeps not-found and validation errors as they are and reports
// everything else as a timeout or a store error.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	case errors.Is(err, domain.ErrStore),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrTimeout):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
	}
}
