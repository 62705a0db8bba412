package app

import (
	"time"

	"github.com/redis/go-redis/v9"

	expiryUC "github.com/merdocx/veilbot/internal/application/expiry/usecases"
	reconcileUC "github.com/merdocx/veilbot/internal/application/reconcile/usecases"
	serverUC "github.com/merdocx/veilbot/internal/application/server/usecases"
	subscriptionUC "github.com/merdocx/veilbot/internal/application/subscription/usecases"
	tariffUC "github.com/merdocx/veilbot/internal/application/tariff/usecases"
	trafficUC "github.com/merdocx/veilbot/internal/application/traffic/usecases"
	userUC "github.com/merdocx/veilbot/internal/application/user/usecases"
	"github.com/merdocx/veilbot/internal/domain/freekey"
	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/payment"
	"github.com/merdocx/veilbot/internal/domain/reconcile"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/domain/tariff"
	"github.com/merdocx/veilbot/internal/domain/user"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	"github.com/merdocx/veilbot/internal/infrastructure/config"
	"github.com/merdocx/veilbot/internal/infrastructure/database"
	"github.com/merdocx/veilbot/internal/infrastructure/notification"
	"github.com/merdocx/veilbot/internal/infrastructure/ratelimit"
	"github.com/merdocx/veilbot/internal/infrastructure/repository"
	"github.com/merdocx/veilbot/internal/infrastructure/token"
	"github.com/merdocx/veilbot/internal/infrastructure/vpn"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// App holds every wired component. Both the server and the worker commands
// build the same graph; the server adds the HTTP surface on top and the
// worker runs only the schedulers.
type App struct {
	Config *config.Config
	Logger logger.Interface

	SubscriptionRepo subscription.Repository
	KeyRepo          key.Repository
	ServerRepo       server.Repository
	TariffRepo       tariff.Repository
	UserRepo         user.Repository
	PaymentRepo      payment.Repository
	ReportRepo       reconcile.Repository
	FreeKeyRepo      freekey.Repository

	Backends    *vpn.Factory
	BundleCache *cache.BundleCache
	RateLimiter ratelimit.RateLimiter
	Notifier    notification.Notifier

	CreateSubscriptionUC     *subscriptionUC.CreateSubscriptionUseCase
	ExtendSubscriptionUC     *subscriptionUC.ExtendSubscriptionUseCase
	DeactivateSubscriptionUC *subscriptionUC.DeactivateSubscriptionUseCase
	DeleteSubscriptionUC     *subscriptionUC.DeleteSubscriptionUseCase
	RepairSubscriptionUC     *subscriptionUC.RepairSubscriptionUseCase
	GrantFreeSubscriptionUC  *subscriptionUC.GrantFreeSubscriptionUseCase
	GenerateBundleUC         *subscriptionUC.GenerateBundleUseCase
	LimitResolver            *subscriptionUC.LimitResolver

	PollTrafficUC     *trafficUC.PollTrafficUseCase
	ResetTrafficUC    *trafficUC.ResetTrafficUseCase
	TrafficOverviewUC *trafficUC.TrafficOverviewUseCase

	ExpireSweepUC         *expiryUC.ExpireSweepUseCase
	NotifySweepUC         *expiryUC.NotifySweepUseCase
	PurchaseNotifySweepUC *expiryUC.PurchaseNotifySweepUseCase

	ReconcileServerUC *reconcileUC.ReconcileServerUseCase
	PruneOrphansUC    *reconcileUC.PruneOrphanSubscriptionsUseCase

	ManageServersUC *serverUC.ManageServersUseCase
	ManageTariffsUC *tariffUC.ManageTariffsUseCase
	CanDeleteUserUC *userUC.CanDeleteUserUseCase
	DeleteUserUC    *userUC.DeleteUserUseCase

	redisClient *redis.Client
}

// Build wires the full application graph. database.Init must have been
// called first.
func Build(cfg *config.Config) *App {
	log := logger.NewLogger()
	db := database.Get()

	a := &App{
		Config: cfg,
		Logger: log,
	}

	a.SubscriptionRepo = repository.NewSubscriptionRepository(db, log)
	a.KeyRepo = repository.NewKeyRepository(db, log)
	a.ServerRepo = repository.NewServerRepository(db, log)
	a.TariffRepo = repository.NewTariffRepository(db, log)
	a.UserRepo = repository.NewUserRepository(db, log)
	a.PaymentRepo = repository.NewPaymentRepository(db, log)
	a.ReportRepo = repository.NewReconcileReportRepository(db, log)
	a.FreeKeyRepo = repository.NewFreeKeyUsageRepository(db, log)

	a.Backends = vpn.NewFactory(cfg.Backend, log)
	a.BundleCache = cache.NewBundleCache()

	if cfg.Redis.Enabled {
		a.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.RateLimiter = ratelimit.NewRedisRateLimiter(a.redisClient)
	} else {
		a.RateLimiter = ratelimit.NewMemoryRateLimiter()
	}

	if cfg.Telegram.Enabled {
		a.Notifier = notification.NewTelegramNotifier(cfg.Telegram, log)
	} else {
		a.Notifier = notification.NewLogNotifier(log)
	}

	a.LimitResolver = subscriptionUC.NewLimitResolver(a.TariffRepo, a.KeyRepo)

	a.ResetTrafficUC = trafficUC.NewResetTrafficUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.ServerRepo, a.Backends, log)

	a.ExtendSubscriptionUC = subscriptionUC.NewExtendSubscriptionUseCase(
		a.SubscriptionRepo, a.ResetTrafficUC, a.BundleCache, log)

	a.CreateSubscriptionUC = subscriptionUC.NewCreateSubscriptionUseCase(
		a.SubscriptionRepo, a.TariffRepo, a.UserRepo, a.KeyRepo, a.ServerRepo,
		a.Backends, token.NewGenerator(), a.ExtendSubscriptionUC,
		cfg.Subscription.KeyEmailDomain, log)

	a.GrantFreeSubscriptionUC = subscriptionUC.NewGrantFreeSubscriptionUseCase(
		a.FreeKeyRepo, a.TariffRepo, a.CreateSubscriptionUC, log)

	a.DeactivateSubscriptionUC = subscriptionUC.NewDeactivateSubscriptionUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.ServerRepo, a.Backends, a.BundleCache, log)

	a.DeleteSubscriptionUC = subscriptionUC.NewDeleteSubscriptionUseCase(
		a.SubscriptionRepo, a.DeactivateSubscriptionUC, log)

	a.RepairSubscriptionUC = subscriptionUC.NewRepairSubscriptionUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.ServerRepo, a.Backends, a.BundleCache,
		cfg.Subscription.KeyEmailDomain, log)

	a.GenerateBundleUC = subscriptionUC.NewGenerateBundleUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.Backends, a.BundleCache, a.LimitResolver,
		time.Duration(cfg.Subscription.BundleTTLSeconds)*time.Second, log)

	a.PollTrafficUC = trafficUC.NewPollTrafficUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.ServerRepo, a.Backends, a.LimitResolver,
		a.BundleCache, a.Notifier, log)

	a.TrafficOverviewUC = trafficUC.NewTrafficOverviewUseCase(
		a.SubscriptionRepo, a.LimitResolver, log)

	a.ExpireSweepUC = expiryUC.NewExpireSweepUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.ServerRepo, a.Backends, a.BundleCache,
		a.Notifier, time.Duration(cfg.Subscription.GracePeriodSeconds)*time.Second, log)

	a.NotifySweepUC = expiryUC.NewNotifySweepUseCase(a.SubscriptionRepo, a.Notifier, log)

	a.PurchaseNotifySweepUC = expiryUC.NewPurchaseNotifySweepUseCase(
		a.SubscriptionRepo, a.Notifier, log)

	a.ReconcileServerUC = reconcileUC.NewReconcileServerUseCase(
		a.KeyRepo, a.ServerRepo, a.ReportRepo, a.Backends, log)

	a.PruneOrphansUC = reconcileUC.NewPruneOrphanSubscriptionsUseCase(
		a.SubscriptionRepo, a.KeyRepo, log)

	a.ManageServersUC = serverUC.NewManageServersUseCase(
		a.ServerRepo, a.KeyRepo, a.Backends, log)

	a.ManageTariffsUC = tariffUC.NewManageTariffsUseCase(a.TariffRepo, log)

	a.CanDeleteUserUC = userUC.NewCanDeleteUserUseCase(
		a.SubscriptionRepo, a.KeyRepo, a.PaymentRepo, log)

	a.DeleteUserUC = userUC.NewDeleteUserUseCase(a.UserRepo, a.CanDeleteUserUC, log)

	return a
}

// Close releases the long-lived infrastructure handles.
func (a *App) Close() {
	a.Backends.CloseAll()
	a.BundleCache.Close()
	if l, ok := a.RateLimiter.(*ratelimit.MemoryRateLimiter); ok {
		l.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Warnw("failed to close redis client", "error", err)
		}
	}
}
