package approvaltoken_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"
	"go-leave/internal/shared/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db    *gorm.DB
	svc   approvaltoken.Service
	clock *fakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenSQLite(t, &approvaltoken.ApprovalToken{})
	clock := &fakeClock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	svc := approvaltoken.NewServiceWithClock(approvaltoken.NewRepository(db), clock.Now)
	return fixture{db: db, svc: svc, clock: clock}
}

func TestService_MintAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leaveID, managerID := uuid.New(), uuid.New()

	token, err := f.svc.Mint(ctx, leaveID, managerID, approvaltoken.ActionApprove, 24*time.Hour)
	require.NoError(t, err)

	assert.Len(t, token, 43)
	assert.Regexp(t, urlSafe, token)

	record, err := f.svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, leaveID, record.LeaveID)
	assert.Equal(t, managerID, record.ManagerID)
	assert.Equal(t, approvaltoken.ActionApprove, record.Action)
	assert.False(t, record.IsUsed)
	assert.True(t, record.Matches(leaveID, managerID, approvaltoken.ActionApprove))
	assert.False(t, record.Matches(uuid.New(), managerID, approvaltoken.ActionApprove))

	t.Run("plaintext is not stored", func(t *testing.T) {
		var count int64
		require.NoError(t, f.db.Model(&approvaltoken.ApprovalToken{}).
			Where("token_hash = ?", token).Count(&count).Error)
		assert.Zero(t, count)
		assert.Equal(t, approvaltoken.HashToken(token), record.TokenHash)
		assert.Equal(t, token[:8], record.TokenPrefix)
	})

	t.Run("unknown and empty tokens are invalid", func(t *testing.T) {
		_, err := f.svc.Validate(ctx, "does-not-exist")
		assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)

		_, err = f.svc.Validate(ctx, "")
		assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)
	})
}

func TestService_Mint_InvalidAction(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Mint(context.Background(), uuid.New(), uuid.New(), approvaltoken.Action("cancel"), time.Hour)
	assert.ErrorIs(t, err, approvaltokenerrors.ErrInvalidAction)
}

func TestService_ConsumeIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionReject, time.Hour)
	require.NoError(t, err)

	ok, err := f.svc.Consume(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.Consume(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Validate(ctx, token)
	assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)

	var stored approvaltoken.ApprovalToken
	require.NoError(t, f.db.First(&stored, "token_hash = ?", approvaltoken.HashToken(token)).Error)
	assert.True(t, stored.IsUsed)
	assert.NotNil(t, stored.UsedAt)
	assert.Nil(t, stored.RevokedAt)

	ok, err = f.svc.Consume(ctx, "")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestService_ConcurrentConsumeHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionApprove, time.Hour)
	require.NoError(t, err)

	const workers = 16
	var wins int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			ok, err := f.svc.Consume(ctx, token)
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestService_MintPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leaveID, managerID := uuid.New(), uuid.New()

	pair, err := f.svc.MintPair(ctx, leaveID, managerID, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Approve, pair.Reject)

	approve, err := f.svc.Validate(ctx, pair.Approve)
	require.NoError(t, err)
	reject, err := f.svc.Validate(ctx, pair.Reject)
	require.NoError(t, err)

	assert.Equal(t, approvaltoken.ActionApprove, approve.Action)
	assert.Equal(t, approvaltoken.ActionReject, reject.Action)
	assert.Equal(t, approve.LeaveID, reject.LeaveID)
	assert.Equal(t, approve.ManagerID, reject.ManagerID)
	assert.Equal(t, approve.ExpiresAt, reject.ExpiresAt)
	assert.Equal(t, pair.Reject, pair.For(approvaltoken.ActionReject))
}

func TestService_RevokeAllForLeaveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leaveID := uuid.New()
	otherLeave := uuid.New()

	pair, err := f.svc.MintPair(ctx, leaveID, uuid.New(), time.Hour)
	require.NoError(t, err)
	other, err := f.svc.Mint(ctx, otherLeave, uuid.New(), approvaltoken.ActionApprove, time.Hour)
	require.NoError(t, err)

	n, err := f.svc.RevokeAllForLeave(ctx, leaveID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.RevokeAllForLeave(ctx, leaveID)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, tok := range []string{pair.Approve, pair.Reject} {
		_, err := f.svc.Validate(ctx, tok)
		assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)

		ok, err := f.svc.Consume(ctx, tok)
		assert.NoError(t, err)
		assert.False(t, ok)
	}

	_, err = f.svc.Validate(ctx, other)
	assert.NoError(t, err, "tokens of other leaves stay live")
}

func TestService_RevokeSkipsConsumedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leaveID := uuid.New()

	pair, err := f.svc.MintPair(ctx, leaveID, uuid.New(), time.Hour)
	require.NoError(t, err)

	ok, err := f.svc.Consume(ctx, pair.Approve)
	require.NoError(t, err)
	require.True(t, ok)

	n, err := f.svc.RevokeAllForLeave(ctx, leaveID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var consumed approvaltoken.ApprovalToken
	require.NoError(t, f.db.First(&consumed, "token_hash = ?", approvaltoken.HashToken(pair.Approve)).Error)
	assert.Nil(t, consumed.RevokedAt, "consumed token keeps used_at and is not marked revoked")
	assert.NotNil(t, consumed.UsedAt)
}

func TestService_ZeroValidityIsImmediatelyInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, validity := range []time.Duration{0, -time.Minute} {
		token, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionApprove, validity)
		require.NoError(t, err)

		_, err = f.svc.Validate(ctx, token)
		assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)
	}
}

func TestService_ExpiryAndSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	short, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionApprove, time.Hour)
	require.NoError(t, err)
	usedShort, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionReject, time.Hour)
	require.NoError(t, err)
	ok, err := f.svc.Consume(ctx, usedShort)
	require.NoError(t, err)
	require.True(t, ok)
	long, err := f.svc.Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionApprove, 48*time.Hour)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)

	_, err = f.svc.Validate(ctx, short)
	assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid, "expiry boundary is exclusive")

	n, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "expired tokens go regardless of state")

	_, err = f.svc.Validate(ctx, long)
	assert.NoError(t, err)

	n, err = f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_WithTxRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	errBoom := errors.New("boom")

	var token string
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		token, err = f.svc.WithTx(tx).Mint(ctx, uuid.New(), uuid.New(), approvaltoken.ActionApprove, time.Hour)
		if err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.NotEmpty(t, token)

	_, err = f.svc.Validate(ctx, token)
	assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)
}

func TestParseAction(t *testing.T) {
	a, ok := approvaltoken.ParseAction(" Approve ")
	assert.True(t, ok)
	assert.Equal(t, approvaltoken.ActionApprove, a)
	assert.Equal(t, "approved", a.Status())
	assert.Equal(t, "rejected", approvaltoken.ActionReject.Status())

	_, ok = approvaltoken.ParseAction("delete")
	assert.False(t, ok)
}
