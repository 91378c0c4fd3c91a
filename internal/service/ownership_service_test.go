package service

import (
	"testing"
	"time"

	"github.com/lshigami/Sifaka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOwnershipFixture(ttl time.Duration) (OwnershipService, *fakeResultRepo, *fakeClaimRepo) {
	resultRepo := newFakeResultRepo()
	claimRepo := newFakeClaimRepo()
	svc := NewOwnershipService(NewMemorySessionHoldStore(), resultRepo, claimRepo, ttl)
	return svc, resultRepo, claimRepo
}

func heldResult() *model.QuizResult {
	return &model.QuizResult{
		QuizDefinitionID: 1,
		Title:            "Focus Check",
		Subject:          "Robin",
		CompletedAt:      time.Now(),
		ScoreSummary:     "Avg. score: 3.0/4",
		ReportData:       model.ReportData{Analysis: "text"},
	}
}

func TestClaimSession_ConsumedExactlyOnce(t *testing.T) {
	svc, resultRepo, _ := newOwnershipFixture(time.Hour)
	svc.HoldForSession("sess-1", heldResult())

	claimed, err := svc.ClaimSession("sess-1", Identity{UserID: 42, Email: "robin@example.com"})
	require.NoError(t, err)
	require.NotNil(t, claimed.UserID)
	assert.Equal(t, uint(42), *claimed.UserID)

	persisted, err := resultRepo.FindByID(claimed.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted, "claimed result must be persisted")

	// Second claim on the same session never returns the result again.
	again, err := svc.ClaimSession("sess-1", Identity{UserID: 42})
	assert.ErrorIs(t, err, ErrNothingToClaim)
	assert.Nil(t, again)
}

func TestClaimSession_NothingHeld(t *testing.T) {
	svc, _, _ := newOwnershipFixture(time.Hour)
	_, err := svc.ClaimSession("unknown", Identity{UserID: 1})
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

func TestHoldForSession_OverwritesPriorHold(t *testing.T) {
	svc, _, _ := newOwnershipFixture(time.Hour)
	first := heldResult()
	second := heldResult()
	second.Title = "Sleep Check"

	svc.HoldForSession("sess-1", first)
	svc.HoldForSession("sess-1", second)

	claimed, err := svc.ClaimSession("sess-1", Identity{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, "Sleep Check", claimed.Title, "only the most recent hold survives")
}

func TestClaimSession_FailedPersistLeavesHoldUntouched(t *testing.T) {
	resultRepo := newFakeResultRepo()
	resultRepo.err = assert.AnError
	svc := NewOwnershipService(NewMemorySessionHoldStore(), resultRepo, newFakeClaimRepo(), time.Hour)
	svc.HoldForSession("sess-1", heldResult())

	_, err := svc.ClaimSession("sess-1", Identity{UserID: 42})
	require.Error(t, err)

	// The hold survives a failed persist; the claim can be retried.
	resultRepo.err = nil
	claimed, err := svc.ClaimSession("sess-1", Identity{UserID: 42})
	require.NoError(t, err)
	assert.NotNil(t, claimed)
}

func TestClaimByToken_SingleUse(t *testing.T) {
	svc, _, _ := newOwnershipFixture(time.Hour)
	claim, err := svc.CreatePendingClaim("robin@example.com", "sess-1", heldResult())
	require.NoError(t, err)
	require.NotEmpty(t, claim.ClaimToken)

	claimed, err := svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 42, Email: "robin@example.com"})
	require.NoError(t, err)
	require.NotNil(t, claimed.UserID)
	assert.Equal(t, uint(42), *claimed.UserID)

	// Same token again, even with a different identity.
	_, err = svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 99, Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrClaimAlreadyUsed)
}

func TestClaimByToken_NotFound(t *testing.T) {
	svc, _, _ := newOwnershipFixture(time.Hour)
	_, err := svc.ClaimByToken("no-such-token", Identity{UserID: 1})
	assert.ErrorIs(t, err, ErrClaimNotFound)
}

func TestClaimByToken_Expired(t *testing.T) {
	// Negative TTL puts ExpiresAt in the past at creation time.
	svc, _, _ := newOwnershipFixture(-time.Minute)
	claim, err := svc.CreatePendingClaim("robin@example.com", "sess-1", heldResult())
	require.NoError(t, err)

	_, err = svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 1})
	assert.ErrorIs(t, err, ErrClaimExpired)
}

func TestClaim_TokenThenSessionYieldsOneResult(t *testing.T) {
	svc, resultRepo, _ := newOwnershipFixture(time.Hour)
	result := heldResult()
	svc.HoldForSession("sess-1", result)
	claim, err := svc.CreatePendingClaim("robin@example.com", "sess-1", result)
	require.NoError(t, err)

	claimed, err := svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 42})
	require.NoError(t, err)
	require.NotNil(t, claimed)

	// The hold carried the same result; it must be gone now.
	_, err = svc.ClaimSession("sess-1", Identity{UserID: 42})
	assert.ErrorIs(t, err, ErrNothingToClaim)
	assert.Len(t, resultRepo.results, 1, "one durable copy, regardless of claim path")
}

func TestClaim_SessionThenTokenYieldsOneResult(t *testing.T) {
	svc, resultRepo, _ := newOwnershipFixture(time.Hour)
	result := heldResult()
	svc.HoldForSession("sess-1", result)
	claim, err := svc.CreatePendingClaim("robin@example.com", "sess-1", result)
	require.NoError(t, err)

	claimed, err := svc.ClaimSession("sess-1", Identity{UserID: 42})
	require.NoError(t, err)
	require.NotNil(t, claimed)

	// The emailed token pointed at the same result; it is spent now.
	_, err = svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 42})
	assert.ErrorIs(t, err, ErrClaimAlreadyUsed)
	assert.Len(t, resultRepo.results, 1, "one durable copy, regardless of claim path")
}

func TestClaim_UnrelatedHoldSurvivesTokenClaim(t *testing.T) {
	svc, resultRepo, _ := newOwnershipFixture(time.Hour)
	first := heldResult()
	claim, err := svc.CreatePendingClaim("robin@example.com", "sess-1", first)
	require.NoError(t, err)

	// The session moved on: a newer result now occupies the hold.
	second := heldResult()
	second.Title = "Sleep Check"
	second.QuizDefinitionID = 2
	svc.HoldForSession("sess-1", second)

	_, err = svc.ClaimByToken(claim.ClaimToken, Identity{UserID: 42})
	require.NoError(t, err)

	// Claiming the first result by token must not evict the second.
	claimed, err := svc.ClaimSession("sess-1", Identity{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, "Sleep Check", claimed.Title)
	assert.Len(t, resultRepo.results, 2, "two distinct results, one copy each")
}

func TestClaimRepo_ConsumeIsCompareAndSwap(t *testing.T) {
	claimRepo := newFakeClaimRepo()
	claim := &model.PendingClaim{Email: "a@b.c", ClaimToken: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, claimRepo.Create(claim))

	first, err := claimRepo.Consume(claim.ID, time.Now())
	require.NoError(t, err)
	second, err := claimRepo.Consume(claim.ID, time.Now())
	require.NoError(t, err)

	assert.True(t, first, "first consume wins")
	assert.False(t, second, "second consume must lose")
}
