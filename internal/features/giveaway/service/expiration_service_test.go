package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cs2-giveaway-backend/internal/features/diag"
	"cs2-giveaway-backend/internal/features/giveaway/models"
)

type fakeAnnouncer struct {
	mu      sync.Mutex
	created []*models.Giveaway
	ended   []*models.Giveaway
}

func (a *fakeAnnouncer) AnnounceCreated(ctx context.Context, giveaway *models.Giveaway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.created = append(a.created, giveaway)
	return nil
}

func (a *fakeAnnouncer) AnnounceWinners(ctx context.Context, giveaway *models.Giveaway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ended = append(a.ended, giveaway)
	return nil
}

func testDiag() *diag.Log {
	return diag.NewLog(redis.NewClient(&redis.Options{
		Addr:       "127.0.0.1:1",
		MaxRetries: -1,
	}))
}

func newTestSweep(repo *fakeRepo, announcer Announcer, now time.Time) *ExpirationService {
	sweep := NewExpirationService(repo, testConfig(), announcer, testDiag())
	sweep.nowFunc = func() time.Time { return now }
	return sweep
}

func TestSweepEndsExpiredGiveaways(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	expired := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())
	running := mustCreate(t, svc, 1, start.Add(time.Hour).UnixMilli())
	_, err := svc.Join(context.Background(), expired.ID, "100")
	require.NoError(t, err)

	announcer := &fakeAnnouncer{}
	sweep := newTestSweep(repo, announcer, start.Add(10*time.Minute))

	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()

	got, err := repo.GetByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusEnded, got.Status)
	assert.Equal(t, []string{"100"}, got.Winners)

	stillRunning, err := repo.GetByID(context.Background(), running.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusActive, stillRunning.Status)

	require.Len(t, announcer.ended, 1)
	assert.Equal(t, expired.ID, announcer.ended[0].ID)
}

func TestSweepIsIdempotent(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	g := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())
	_, err := svc.Join(context.Background(), g.ID, "100")
	require.NoError(t, err)

	announcer := &fakeAnnouncer{}
	sweep := newTestSweep(repo, announcer, start.Add(10*time.Minute))

	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()
	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()

	assert.Len(t, announcer.ended, 1, "a giveaway must be announced exactly once")
}

func TestSweepSkipsClaimedGiveaways(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	g := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())

	// Another sweep instance holds the claim.
	require.True(t, repo.TryClaimProcessing(context.Background(), g.ID))

	announcer := &fakeAnnouncer{}
	sweep := newTestSweep(repo, announcer, start.Add(10*time.Minute))

	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()

	got, err := repo.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusActive, got.Status)
	assert.Empty(t, announcer.ended)
}

func TestSweepRecoversFromStaleClaim(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	g := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())
	_, err := svc.Join(context.Background(), g.ID, "100")
	require.NoError(t, err)

	// A sweep instance died mid-processing; its claim has since expired.
	repo.mu.Lock()
	repo.claims[g.ID] = time.Now().Add(-time.Second)
	repo.mu.Unlock()

	announcer := &fakeAnnouncer{}
	sweep := newTestSweep(repo, announcer, start.Add(24*time.Hour))

	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()

	got, err := repo.GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusEnded, got.Status)
	assert.Equal(t, []string{"100"}, got.Winners)
	require.Len(t, announcer.ended, 1)
}

func TestSweepReleasesClaimDuringShutdown(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	g := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())

	sweep := newTestSweep(repo, &fakeAnnouncer{}, start.Add(10*time.Minute))

	// The caller's context is already canceled, as it is during shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, sweep.ProcessExpiredGiveaways(ctx))
	sweep.wg.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.NotContains(t, repo.claims, g.ID, "claim must be released")
	require.NotNil(t, repo.lastReleaseCtx)
	assert.NoError(t, repo.lastReleaseCtx.Err(), "release must not run on the canceled context")
}

func TestSweepToleratesForceEndRace(t *testing.T) {
	start := time.Unix(1700000000, 0)
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGate{subscribed: true}, start)

	g := mustCreate(t, svc, 1, start.Add(time.Minute).UnixMilli())

	// The admin beats the sweep to the transition.
	_, err := svc.ForceEnd(context.Background(), g.ID)
	require.NoError(t, err)

	announcer := &fakeAnnouncer{}
	sweep := newTestSweep(repo, announcer, start.Add(10*time.Minute))

	require.NoError(t, sweep.ProcessExpiredGiveaways(context.Background()))
	sweep.wg.Wait()

	assert.Empty(t, announcer.ended)
}
