package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/pkg/ctxutil"
)

//go:generate moq -out tone_repo_mock_test.go -pkg records . toneRepo

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *toneRepoMock, timeout time.Duration) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, timeout)
}

func rec(id, owner string, minute int) domain.ToneRecord {
	return domain.ToneRecord{
		ID:        id,
		OwnerID:   owner,
		Name:      id,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

func ids(recs []domain.ToneRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// ListFor
// ---------------------------------------------------------------------------

func TestListFor_NewestFirst(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		ListFunc: func(ctx context.Context, ownerID string) ([]domain.ToneRecord, error) {
			owner, ok := ctxutil.OwnerIDFromCtx(ctx)
			assert.True(t, ok)
			assert.Equal(t, "u1", owner)
			return []domain.ToneRecord{rec("Clean", "u1", 0), rec("Lead", "u1", 5), rec("Crunch", "u1", 2)}, nil
		},
	}
	svc := newTestService(repo, time.Second)

	got, err := svc.ListFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lead", "Crunch", "Clean"}, ids(got))
	require.Len(t, repo.ListCalls(), 1)
	assert.Equal(t, "u1", repo.ListCalls()[0].OwnerID)
}

func TestListFor_TiesKeepStoreOrder(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		ListFunc: func(context.Context, string) ([]domain.ToneRecord, error) {
			return []domain.ToneRecord{rec("b", "u1", 1), rec("a", "u1", 1), rec("c", "u1", 1)}, nil
		},
	}
	got, err := newTestService(repo, time.Second).ListFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
}

func TestListFor_DropsForeignRecords(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		ListFunc: func(context.Context, string) ([]domain.ToneRecord, error) {
			return []domain.ToneRecord{rec("mine", "u1", 0), rec("theirs", "u2", 1)}, nil
		},
	}
	got, err := newTestService(repo, time.Second).ListFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, ids(got))
}

func TestListFor_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		ListFunc: func(context.Context, string) ([]domain.ToneRecord, error) { return nil, nil },
	}
	got, err := newTestService(repo, time.Second).ListFor(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListFor_NoOwner(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{}
	_, err := newTestService(repo, time.Second).ListFor(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.ListCalls())
}

func TestListFor_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repoErr  error
		wantKind domain.ErrorKind
	}{
		{"store failure", errors.New("connection reset"), domain.KindStore},
		{"already classified", domain.ErrStore, domain.KindStore},
		{"deadline", context.DeadlineExceeded, domain.KindTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &toneRepoMock{
				ListFunc: func(context.Context, string) ([]domain.ToneRecord, error) { return nil, tt.repoErr },
			}
			_, err := newTestService(repo, time.Second).ListFor(context.Background(), "u1")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			assert.ErrorIs(t, err, tt.repoErr)
		})
	}
}

func TestListFor_BoundedWait(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		ListFunc: func(ctx context.Context, _ string) ([]domain.ToneRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	_, err := newTestService(repo, 10*time.Millisecond).ListFor(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrTimeout)
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

func TestInsert_Success(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		InsertFunc: func(_ context.Context, ownerID string, tone domain.NewTone) (*domain.ToneRecord, error) {
			return &domain.ToneRecord{ID: "t1", OwnerID: ownerID, Name: tone.Name, Amp: tone.Amp, CreatedAt: base}, nil
		},
	}
	draft := domain.Draft{Name: " Crunch ", Amp: "5153", Cab: "  "}

	got, err := newTestService(repo, time.Second).Insert(context.Background(), "u1", draft)
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, "u1", got.OwnerID)

	calls := repo.InsertCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "u1", calls[0].OwnerID)
	assert.Equal(t, "Crunch", calls[0].Tone.Name)
	assert.Equal(t, strPtr("5153"), calls[0].Tone.Amp)
	assert.Nil(t, calls[0].Tone.Cab)
}

func TestInsert_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "\t"} {
		repo := &toneRepoMock{}
		_, err := newTestService(repo, time.Second).Insert(context.Background(), "u1", domain.Draft{Name: name, Amp: "x"})
		require.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "name required", err.Error())
		assert.Empty(t, repo.InsertCalls())
	}
}

func TestInsert_NoOwner(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{}
	_, err := newTestService(repo, time.Second).Insert(context.Background(), "", domain.Draft{Name: "Lead"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.InsertCalls())
}

func TestInsert_StoreError(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		InsertFunc: func(context.Context, string, domain.NewTone) (*domain.ToneRecord, error) {
			return nil, errors.New("permission denied for table tone_records")
		},
	}
	_, err := newTestService(repo, time.Second).Insert(context.Background(), "u1", domain.Draft{Name: "Lead"})
	require.ErrorIs(t, err, domain.ErrStore)
}

func TestInsert_OwnerMismatch(t *testing.T) {
	t.Parallel()

	repo := &toneRepoMock{
		InsertFunc: func(context.Context, string, domain.NewTone) (*domain.ToneRecord, error) {
			return &domain.ToneRecord{ID: "t1", OwnerID: "u2", Name: "Lead"}, nil
		},
	}
	_, err := newTestService(repo, time.Second).Insert(context.Background(), "u1", domain.Draft{Name: "Lead"})
	require.ErrorIs(t, err, domain.ErrStore)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestDelete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ownerID   string
		id        string
		repoErr   error
		wantErr   error
		wantCalls int
	}{
		{name: "success", ownerID: "u1", id: "t1", wantCalls: 1},
		{name: "not found", ownerID: "u1", id: "t9", repoErr: domain.ErrNotFound, wantErr: domain.ErrNotFound, wantCalls: 1},
		{name: "no owner", ownerID: "", id: "t1", wantErr: domain.ErrUnauthorized},
		{name: "blank id", ownerID: "u1", id: " ", wantErr: domain.ErrValidation},
		{name: "store failure", ownerID: "u1", id: "t1", repoErr: errors.New("boom"), wantErr: domain.ErrStore, wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &toneRepoMock{
				DeleteFunc: func(context.Context, string, string) error { return tt.repoErr },
			}
			err := newTestService(repo, time.Second).Delete(context.Background(), tt.ownerID, tt.id)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Len(t, repo.DeleteCalls(), tt.wantCalls)
		})
	}
}
