package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/purchases"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakePurchases — управляемый из теста клиент SDK покупок.
type fakePurchases struct {
	mu          sync.Mutex
	subscribers map[string]*purchases.Subscriber
	err         error
	calls       int
}

func newFakePurchases() *fakePurchases {
	return &fakePurchases{subscribers: make(map[string]*purchases.Subscriber)}
}

func (f *fakePurchases) GetSubscriber(_ context.Context, appUserID string) (*purchases.Subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if sub, ok := f.subscribers[appUserID]; ok {
		return sub, nil
	}
	return &purchases.Subscriber{OriginalAppUserID: appUserID, Entitlements: map[string]purchases.Entitlement{}}, nil
}

func (f *fakePurchases) grantPremium(appUserID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expires := time.Now().Add(30 * 24 * time.Hour)
	f.subscribers[appUserID] = &purchases.Subscriber{
		OriginalAppUserID: appUserID,
		Entitlements: map[string]purchases.Entitlement{
			"premium": {ProductIdentifier: "shikshasetu_premium_monthly", ExpiresDate: &expires},
		},
	}
}

func (f *fakePurchases) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// fakeRemote — управляемый серверный сигнал.
type fakeRemote struct {
	status models.PremiumStatus
	err    error
}

func (f *fakeRemote) CheckStatus(_ context.Context, _ string) (models.PremiumStatus, error) {
	return f.status, f.err
}

func entitlementConfig() config.Entitlement {
	return config.Entitlement{
		AllowList:     []string{"gagandeepn49@gmail.com", "OPS@ShikshaSetu.in"},
		EntitlementID: "premium",
		PollInterval:  10 * time.Millisecond,
	}
}

func TestReconciler_AllowListAlwaysGranted(t *testing.T) {
	pc := newFakePurchases()
	pc.setErr(errors.New("sdk unavailable")) // allow-list не зависит от SDK
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	tests := []string{
		"gagandeepn49@gmail.com",
		"GAGANDEEPN49@GMAIL.COM",
		"  gagandeepn49@gmail.com  ",
		"ops@shikshasetu.in",
	}
	for _, email := range tests {
		assert.Equal(t, models.StatusGranted, r.Evaluate(context.Background(), email), email)
		assert.True(t, r.IsPremium(context.Background(), email), email)
	}
}

func TestReconciler_ActiveEntitlementGranted(t *testing.T) {
	pc := newFakePurchases()
	pc.grantPremium("user@x.com")
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	require.NoError(t, r.Refresh(context.Background(), "User@X.com"))
	assert.Equal(t, models.StatusGranted, r.Evaluate(context.Background(), "user@x.com"))
}

func TestReconciler_NoEntitlementDenied(t *testing.T) {
	pc := newFakePurchases()
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	require.NoError(t, r.Refresh(context.Background(), "user@x.com"))
	assert.Equal(t, models.StatusDenied, r.Evaluate(context.Background(), "user@x.com"))
	assert.False(t, r.IsPremium(context.Background(), "user@x.com"))
}

func TestReconciler_SDKErrorYieldsUnknown(t *testing.T) {
	pc := newFakePurchases()
	pc.setErr(errors.New("network down"))
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	require.Error(t, r.Refresh(context.Background(), "user@x.com"))

	status := r.Evaluate(context.Background(), "user@x.com")
	assert.Equal(t, models.StatusUnknown, status)
	// булево представление схлопывает unknown в false
	assert.False(t, r.IsPremium(context.Background(), "user@x.com"))
}

func TestReconciler_ExpiredEntitlementDenied(t *testing.T) {
	pc := newFakePurchases()
	expired := time.Now().Add(-time.Hour)
	pc.subscribers["user@x.com"] = &purchases.Subscriber{
		Entitlements: map[string]purchases.Entitlement{
			"premium": {ExpiresDate: &expired},
		},
	}
	r := NewReconciler(entitlementConfig(), pc, nil, testLogger())

	require.NoError(t, r.Refresh(context.Background(), "user@x.com"))
	assert.Equal(t, models.StatusDenied, r.Evaluate(context.Background(), "user@x.com"))
}

func TestReconciler_RemoteSignal(t *testing.T) {
	tests := []struct {
		name   string
		remote *fakeRemote
		want   models.PremiumStatus
	}{
		{
			name:   "серверная запись даёт премиум без SDK",
			remote: &fakeRemote{status: models.StatusGranted},
			want:   models.StatusGranted,
		},
		{
			name:   "сервер подтверждает отсутствие премиума",
			remote: &fakeRemote{status: models.StatusDenied},
			want:   models.StatusDenied,
		},
		{
			name:   "ошибка сервера даёт unknown",
			remote: &fakeRemote{err: errors.New("store down")},
			want:   models.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := entitlementConfig()
			cfg.ConsultRemote = true
			pc := newFakePurchases()
			r := NewReconciler(cfg, pc, tt.remote, testLogger())

			require.NoError(t, r.Refresh(context.Background(), "user@x.com"))
			assert.Equal(t, tt.want, r.Evaluate(context.Background(), "user@x.com"))
		})
	}
}

func TestReconciler_RemoteDisabledByDefault(t *testing.T) {
	// consult_remote выключен: даже при премиуме на сервере сверка его не видит
	pc := newFakePurchases()
	remote := &fakeRemote{status: models.StatusGranted}
	r := NewReconciler(entitlementConfig(), pc, remote, testLogger())

	require.NoError(t, r.Refresh(context.Background(), "user@x.com"))
	assert.Equal(t, models.StatusDenied, r.Evaluate(context.Background(), "user@x.com"))
}
