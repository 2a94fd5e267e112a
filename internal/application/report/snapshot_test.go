package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

func freeUser(used int) *entity.User {
	return &entity.User{ID: "u1", Plan: entity.PlanFree, FreeSnapshotsUsed: used}
}

func premiumUser() *entity.User {
	return &entity.User{ID: "u1", Plan: entity.PlanPremium}
}

func candidateSnapshot(hash string) *entity.ReportSnapshot {
	return &entity.ReportSnapshot{
		ID:         "snap-" + hash,
		UserID:     "u1",
		SourceHash: hash,
	}
}

func newSnapshotFixture(user *entity.User, freeLimit int) (*SnapshotService, *fakeSnapshotRepo, *fakeUserRepo) {
	snaps := &fakeSnapshotRepo{}
	users := &fakeUserRepo{users: map[string]*entity.User{user.ID: user}}
	return NewSnapshotService(snaps, users, freeLimit), snaps, users
}

// ──────────────────────────────────────────────────────────────────────────────
// Dedup-or-create
// ──────────────────────────────────────────────────────────────────────────────

func TestDedupOrCreate_CreatesAndCountsUsage(t *testing.T) {
	user := freeUser(0)
	svc, snaps, _ := newSnapshotFixture(user, 2)

	snap, deduped, err := svc.DedupOrCreate(context.Background(), user, candidateSnapshot("h1"))
	require.NoError(t, err)
	assert.False(t, deduped)
	assert.Equal(t, "snap-h1", snap.ID)
	assert.Len(t, snaps.rows, 1)
	assert.Equal(t, 1, user.FreeSnapshotsUsed)
}

func TestDedupOrCreate_SameHashReturnsExisting(t *testing.T) {
	user := freeUser(0)
	svc, snaps, _ := newSnapshotFixture(user, 2)
	ctx := context.Background()

	first, _, err := svc.DedupOrCreate(ctx, user, candidateSnapshot("h1"))
	require.NoError(t, err)

	second, deduped, err := svc.DedupOrCreate(ctx, user, candidateSnapshot("h1"))
	require.NoError(t, err)
	assert.True(t, deduped)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, snaps.rows, 1, "no second row written")
	assert.Equal(t, 1, user.FreeSnapshotsUsed, "dedup hits never consume quota")
}

func TestDedupOrCreate_FreeQuotaExhausted(t *testing.T) {
	user := freeUser(2)
	svc, snaps, _ := newSnapshotFixture(user, 2)

	_, _, err := svc.DedupOrCreate(context.Background(), user, candidateSnapshot("h-new"))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Empty(t, snaps.rows)
}

func TestDedupOrCreate_QuotaOnlyGuardsNewSnapshots(t *testing.T) {
	// A free user over the limit can still re-fetch an existing snapshot.
	user := freeUser(2)
	svc, snaps, _ := newSnapshotFixture(user, 2)
	existing := candidateSnapshot("h1")
	require.NoError(t, snaps.Insert(context.Background(), existing))

	snap, deduped, err := svc.DedupOrCreate(context.Background(), user, candidateSnapshot("h1"))
	require.NoError(t, err)
	assert.True(t, deduped)
	assert.Equal(t, existing.ID, snap.ID)
}

func TestDedupOrCreate_PremiumUnlimited(t *testing.T) {
	user := premiumUser()
	svc, _, _ := newSnapshotFixture(user, 2)
	ctx := context.Background()

	for i, h := range []string{"h1", "h2", "h3", "h4"} {
		snap, deduped, err := svc.DedupOrCreate(ctx, user, candidateSnapshot(h))
		require.NoError(t, err, "snapshot %d", i)
		assert.False(t, deduped)
		assert.NotNil(t, snap)
	}
}

func TestDedupOrCreate_ConcurrentInsertRaceResolvesToWinner(t *testing.T) {
	// A racing writer lands the same hash between the dedup check and the
	// insert. The unique violation resolves by re-fetching the winner.
	user := freeUser(0)
	svc, snaps, _ := newSnapshotFixture(user, 2)

	winner := candidateSnapshot("h1")
	winner.ID = "winner"
	installed := false
	snaps.insertHook = func() {
		if !installed {
			installed = true
			snaps.rows = append(snaps.rows, winner)
		}
	}

	snap, deduped, err := svc.DedupOrCreate(context.Background(), user, candidateSnapshot("h1"))
	require.NoError(t, err)
	assert.True(t, deduped)
	assert.Equal(t, "winner", snap.ID)
	assert.Equal(t, 0, user.FreeSnapshotsUsed, "losing the race consumes no quota")
}
