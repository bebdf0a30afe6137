package entitlement

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

func waitForState(t *testing.T, p *Poller, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.State() == want
	}, 2*time.Second, 5*time.Millisecond, "poller did not reach state %s", want)
}

func TestPoller_ConfirmsWhenWebhookLands(t *testing.T) {
	// сценарий: пользователь ушёл на страницу оплаты, webhook пришёл позже,
	// очередной тик наблюдает премиум и поллер останавливается
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	var confirmed atomic.Int32
	p := NewPoller(entitlementConfig(), r, testLogger(), func(_ string) {
		confirmed.Add(1)
	})

	require.Equal(t, StateIdle, p.State())
	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	require.Equal(t, StatePolling, p.State())

	// оплата подтверждается через несколько тиков
	time.Sleep(30 * time.Millisecond)
	pc.grantPremium("user@x.com")

	waitForState(t, p, StateConfirmed)
	assert.Equal(t, int32(1), confirmed.Load(), "onConfirmed должен вызваться ровно один раз")
}

func TestPoller_StopWithoutConfirmation(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	p.Stop()

	assert.Equal(t, StateStopped, p.State())
}

func TestPoller_StartWhilePollingFails(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	defer p.Stop()

	require.ErrorIs(t, p.Start(context.Background(), "user@x.com"), ErrAlreadyPolling)
}

func TestPoller_RestartAfterStop(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	p.Stop()
	require.Equal(t, StateStopped, p.State())

	// ручная повторная проверка статуса запускает новый цикл
	pc.grantPremium("user@x.com")
	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	waitForState(t, p, StateConfirmed)
}

func TestPoller_ContextCancellationStops(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx, "user@x.com"))
	cancel()

	waitForState(t, p, StateStopped)
}

func TestPoller_MaxWaitExpires(t *testing.T) {
	cfg := entitlementConfig()
	cfg.PollMaxWait = 30 * time.Millisecond

	pc := newFakePurchases()
	r := NewReconciler(cfg, pc, nil, testLogger())
	p := NewPoller(cfg, r, testLogger(), nil)

	require.NoError(t, p.Start(context.Background(), "user@x.com"))
	waitForState(t, p, StateStopped)
}

func TestPoller_AllowListedConfirmsImmediately(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	require.NoError(t, p.Start(context.Background(), "gagandeepn49@gmail.com"))
	waitForState(t, p, StateConfirmed)
}

func TestPoller_CheckNow(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())
	p := NewPoller(entitlementConfig(), r, testLogger(), nil)

	assert.Equal(t, models.StatusDenied, p.CheckNow(context.Background(), "user@x.com"))

	pc.grantPremium("user@x.com")
	assert.Equal(t, models.StatusGranted, p.CheckNow(context.Background(), "user@x.com"))
	// ручная проверка не меняет состояние машины
	assert.Equal(t, StateIdle, p.State())
}
