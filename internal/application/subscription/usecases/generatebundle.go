package usecases

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/infrastructure/cache"
	"github.com/merdocx/veilbot/internal/infrastructure/token"
	"github.com/merdocx/veilbot/internal/infrastructure/vpn"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/goroutine"
	"github.com/merdocx/veilbot/internal/shared/logger"
	"github.com/merdocx/veilbot/internal/shared/vlessurl"
)

type GenerateBundleCommand struct {
	Token string
}

type GenerateBundleResult struct {
	// Body is the base64-encoded newline-joined URL list.
	Body string
	// UsedBytes and LimitBytes feed the Subscription-Userinfo header.
	UsedBytes  int64
	LimitBytes int64
	ExpiresAt  time.Time
}

type GenerateBundleUseCase struct {
	subRepo       subscription.Repository
	keyRepo       key.Repository
	backends      BackendProvider
	bundleCache   BundleCache
	limitResolver *LimitResolver
	bundleTTL     time.Duration
	logger        logger.Interface
}

func NewGenerateBundleUseCase(
	subRepo subscription.Repository,
	keyRepo key.Repository,
	backends BackendProvider,
	bundleCache BundleCache,
	limitResolver *LimitResolver,
	bundleTTL time.Duration,
	logger logger.Interface,
) *GenerateBundleUseCase {
	return &GenerateBundleUseCase{
		subRepo:       subRepo,
		keyRepo:       keyRepo,
		backends:      backends,
		bundleCache:   bundleCache,
		limitResolver: limitResolver,
		bundleTTL:     bundleTTL,
		logger:        logger,
	}
}

func (uc *GenerateBundleUseCase) Execute(ctx context.Context, cmd GenerateBundleCommand) (*GenerateBundleResult, error) {
	if !token.Valid(cmd.Token) {
		return nil, apperrors.NewTokenInvalidError("malformed subscription token")
	}

	// Always drop the cached entry first so freshly renamed servers show
	// up in the fragments.
	cacheKey := cache.KeyForToken(cmd.Token)
	uc.bundleCache.Delete(cacheKey)

	sub, err := uc.subRepo.GetByToken(ctx, cmd.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	now := biztime.NowUTC()
	if sub == nil || !sub.IsServable(now) {
		return nil, apperrors.NewSubscriptionExpiredError("subscription not found or expired")
	}

	entries, err := uc.keyRepo.ListForBundle(ctx, sub.ID(), sub.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle keys: %w", err)
	}

	urls := uc.assembleURLs(ctx, entries)
	if len(urls) == 0 {
		return nil, apperrors.NewSubscriptionExpiredError("no usable keys for subscription")
	}

	body := base64.StdEncoding.EncodeToString([]byte(strings.Join(urls, "\n")))
	uc.bundleCache.Set(cacheKey, body, uc.bundleTTL)

	sub.Touch()
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		uc.logger.Warnw("failed to touch subscription after bundle", "id", sub.ID(), "error", err)
	}

	limitBytes, err := uc.limitResolver.EffectiveLimitBytes(ctx, sub)
	if err != nil {
		uc.logger.Warnw("failed to resolve effective limit", "id", sub.ID(), "error", err)
		limitBytes = 0
	}

	return &GenerateBundleResult{
		Body:       body,
		UsedBytes:  sub.TrafficUsageBytes(),
		LimitBytes: limitBytes,
		ExpiresAt:  sub.ExpiresAt(),
	}, nil
}

// assembleURLs produces one normalized VLESS URL per key. Stored configs are
// preferred; missing ones are fetched fresh and written back off the request
// path.
func (uc *GenerateBundleUseCase) assembleURLs(ctx context.Context, entries []*key.BundleEntry) []string {
	urls := make([]string, 0, len(entries))

	for _, entry := range entries {
		raw := entry.Key.ClientConfig

		if !strings.Contains(raw, "vless://") {
			fetched, err := uc.fetchConfig(ctx, entry)
			if err != nil {
				uc.logger.Warnw("failed to fetch client config",
					"key_id", entry.Key.ID, "server", entry.Server.Name, "error", err)
				continue
			}
			raw = fetched
			uc.scheduleWriteback(entry.Key.ID, raw, entry)
		}

		u := vlessurl.NormalizeHost(raw, entry.Server.Domain, entry.Server.APIURL)
		u = vlessurl.StripFragment(u)
		u = vlessurl.SetFragment(u, entry.Server.Name)
		urls = append(urls, u)
	}

	return urls
}

func (uc *GenerateBundleUseCase) fetchConfig(ctx context.Context, entry *key.BundleEntry) (string, error) {
	if entry.Key.RemoteID == "" {
		return "", apperrors.NewNotFoundError("key has no backend id")
	}

	return uc.backends.ClientFor(entry.Server).GetUserConfig(ctx, entry.Key.RemoteID, vpn.ConfigParams{
		Domain: entry.Server.Domain,
		Email:  entry.Key.Email,
	})
}

// scheduleWriteback persists a freshly fetched config without blocking the
// response. The normalized value is stored before fragment decoration so
// renames stay non-destructive.
func (uc *GenerateBundleUseCase) scheduleWriteback(keyID uint, rawConfig string, entry *key.BundleEntry) {
	normalized := vlessurl.StripFragment(vlessurl.NormalizeHost(rawConfig, entry.Server.Domain, entry.Server.APIURL))
	goroutine.SafeGo(uc.logger, "bundle-config-writeback", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.keyRepo.UpdateClientConfig(ctx, keyID, normalized); err != nil {
			uc.logger.Warnw("config writeback failed", "key_id", keyID, "error", err)
		}
	})
}
