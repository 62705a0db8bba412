package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/payment"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/domain/tariff"
	"github.com/merdocx/veilbot/internal/domain/user"
	"github.com/merdocx/veilbot/internal/infrastructure/vpn"
)

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	if args.Error(0) == nil && sub.ID() == 0 {
		_ = sub.SetID(1)
	}
	return args.Error(0)
}

func (m *mockSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) GetByToken(ctx context.Context, token string) (*subscription.Subscription, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) GetActiveByUserID(ctx context.Context, userID uint64) (*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) List(ctx context.Context, filter subscription.Filter) ([]*subscription.Subscription, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*subscription.Subscription), args.Get(1).(int64), args.Error(2)
}

func (m *mockSubscriptionRepo) ListActive(ctx context.Context) ([]*subscription.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) ListExpiringWithin(ctx context.Context, now time.Time, within time.Duration) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, now, within)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) ListPurchaseUnnotified(ctx context.Context, since time.Time) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

type mockKeyRepo struct {
	mock.Mock
}

func (m *mockKeyRepo) Create(ctx context.Context, k *key.Key) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *mockKeyRepo) GetByID(ctx context.Context, id uint) (*key.Key, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*key.Key), args.Error(1)
}

func (m *mockKeyRepo) Update(ctx context.Context, k *key.Key) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *mockKeyRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockKeyRepo) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*key.Key, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*key.Key), args.Error(1)
}

func (m *mockKeyRepo) ListByServer(ctx context.Context, serverID uint) ([]*key.Key, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*key.Key), args.Error(1)
}

func (m *mockKeyRepo) ListByUser(ctx context.Context, userID uint64) ([]*key.Key, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*key.Key), args.Error(1)
}

func (m *mockKeyRepo) DeleteBySubscription(ctx context.Context, subscriptionID uint) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *mockKeyRepo) ListForBundle(ctx context.Context, subscriptionID uint, userID uint64) ([]*key.BundleEntry, error) {
	args := m.Called(ctx, subscriptionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*key.BundleEntry), args.Error(1)
}

func (m *mockKeyRepo) UpdateClientConfig(ctx context.Context, keyID uint, clientConfig string) error {
	args := m.Called(ctx, keyID, clientConfig)
	return args.Error(0)
}

func (m *mockKeyRepo) BackfillRemoteID(ctx context.Context, keyID uint, remoteID string) error {
	args := m.Called(ctx, keyID, remoteID)
	return args.Error(0)
}

func (m *mockKeyRepo) BatchUpdateTraffic(ctx context.Context, usage map[uint]int64) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

func (m *mockKeyRepo) ZeroTrafficBySubscription(ctx context.Context, subscriptionID uint) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *mockKeyRepo) DistinctPositiveLimits(ctx context.Context, subscriptionID uint) ([]int64, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type mockServerRepo struct {
	mock.Mock
}

func (m *mockServerRepo) Create(ctx context.Context, srv *server.Server) error {
	args := m.Called(ctx, srv)
	return args.Error(0)
}

func (m *mockServerRepo) GetByID(ctx context.Context, id uint) (*server.Server, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*server.Server), args.Error(1)
}

func (m *mockServerRepo) List(ctx context.Context, activeOnly bool) ([]*server.Server, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*server.Server), args.Error(1)
}

func (m *mockServerRepo) ListActiveByProtocol(ctx context.Context, protocol server.Protocol) ([]*server.Server, error) {
	args := m.Called(ctx, protocol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*server.Server), args.Error(1)
}

func (m *mockServerRepo) Update(ctx context.Context, srv *server.Server) error {
	args := m.Called(ctx, srv)
	return args.Error(0)
}

func (m *mockServerRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTariffRepo struct {
	mock.Mock
}

func (m *mockTariffRepo) Create(ctx context.Context, t *tariff.Tariff) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTariffRepo) GetByID(ctx context.Context, id uint) (*tariff.Tariff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Tariff), args.Error(1)
}

func (m *mockTariffRepo) List(ctx context.Context) ([]*tariff.Tariff, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tariff.Tariff), args.Error(1)
}

func (m *mockTariffRepo) Update(ctx context.Context, t *tariff.Tariff) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTariffRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) EnsureExists(ctx context.Context, id uint64, name string) (*user.User, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CreateUser(ctx context.Context, email, displayName string) (*vpn.KeyRecord, error) {
	args := m.Called(ctx, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vpn.KeyRecord), args.Error(1)
}

func (m *mockBackend) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBackend) GetUserConfig(ctx context.Context, id string, params vpn.ConfigParams) (string, error) {
	args := m.Called(ctx, id, params)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) GetTrafficHistory(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockBackend) GetKeyTrafficStats(ctx context.Context, id string) (*vpn.TrafficStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vpn.TrafficStats), args.Error(1)
}

func (m *mockBackend) GetKeyInfo(ctx context.Context, uuid string) (*vpn.RemoteKey, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vpn.RemoteKey), args.Error(1)
}

func (m *mockBackend) ResetKeyTraffic(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBackend) GetAllKeys(ctx context.Context) ([]vpn.RemoteKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vpn.RemoteKey), args.Error(1)
}

func (m *mockBackend) SyncConfig(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockBackend) Close() {}

type mockBackendProvider struct {
	backends map[uint]*mockBackend
}

func (p *mockBackendProvider) ClientFor(srv *server.Server) vpn.Backend {
	return p.backends[srv.ID]
}

type mockTrafficResetter struct {
	mock.Mock
}

func (m *mockTrafficResetter) ResetSubscriptionTraffic(ctx context.Context, subscriptionID uint) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) ListByUserID(ctx context.Context, userID uint64) ([]*payment.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *mockPaymentRepo) CountSettledByUserID(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
