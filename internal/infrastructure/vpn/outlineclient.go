package vpn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// OutlineClient speaks the Outline server management API. Outline applies
// changes immediately, so SyncConfig is a no-op, and the per-key counters
// come from the bulk transfer metrics.
type OutlineClient struct {
	baseURL    string
	credential string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     logger.Interface
}

func NewOutlineClient(apiURL, credential string, timeout, connectTimeout time.Duration, insecureSkipVerify bool, log logger.Interface) *OutlineClient {
	base := strings.TrimRight(apiURL, "/")
	return &OutlineClient{
		baseURL:    base,
		credential: credential,
		httpClient: newHTTPClient(timeout, connectTimeout, insecureSkipVerify),
		breaker:    newBreaker("outline:"+base, log),
		logger:     log.Named("outline"),
	}
}

func (c *OutlineClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	return execute(c.breaker, func() ([]byte, error) {
		data, _, err := doJSON(ctx, c.httpClient, method, c.baseURL+path, c.credential, body)
		return data, err
	})
}

func (c *OutlineClient) CreateUser(ctx context.Context, email, displayName string) (*KeyRecord, error) {
	data, err := c.do(ctx, http.MethodPost, "/access-keys", nil)
	if err != nil {
		return nil, err
	}

	var raw rawKey
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode access key response: %w", err)
	}

	record := &KeyRecord{
		ID:           raw.normalizedID(),
		ClientConfig: raw.AccessURL,
	}
	if record.ID == "" {
		return nil, apperrors.NewBackendRejectedError("access key response carried no id")
	}

	name := displayName
	if name == "" {
		name = email
	}
	if _, err := c.do(ctx, http.MethodPut, "/access-keys/"+url.PathEscape(record.ID)+"/name",
		map[string]string{"name": name}); err != nil {
		// Naming is cosmetic; the key itself is live.
		c.logger.Warnw("failed to name access key", "key_id", record.ID, "error", err)
	}

	return record, nil
}

func (c *OutlineClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/access-keys/"+url.PathEscape(id), nil)
	if err != nil {
		if isKeyMissing(err) {
			c.logger.Debugw("delete of missing access key treated as success", "key_id", id)
			return nil
		}
		return err
	}
	return nil
}

func (c *OutlineClient) GetUserConfig(ctx context.Context, id string, params ConfigParams) (string, error) {
	keys, err := c.listRaw(ctx)
	if err != nil {
		return "", err
	}
	for i := range keys {
		if keys[i].normalizedID() == id {
			return keys[i].AccessURL, nil
		}
	}
	return "", apperrors.NewNotFoundError("access key not found on backend")
}

func (c *OutlineClient) GetTrafficHistory(ctx context.Context) (map[string]int64, error) {
	data, err := c.do(ctx, http.MethodGet, "/metrics/transfer", nil)
	if err != nil {
		return nil, err
	}
	return decodeTrafficMap(data)
}

func (c *OutlineClient) GetKeyTrafficStats(ctx context.Context, id string) (*TrafficStats, error) {
	history, err := c.GetTrafficHistory(ctx)
	if err != nil {
		return nil, err
	}
	total, ok := history[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("no traffic recorded for access key")
	}
	return &TrafficStats{TotalBytes: total, LastUpdated: time.Now().UTC()}, nil
}

func (c *OutlineClient) GetKeyInfo(ctx context.Context, uuid string) (*RemoteKey, error) {
	keys, err := c.GetAllKeys(ctx)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].ID == uuid || keys[i].UUID == uuid {
			return &keys[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("access key not found on backend")
}

// ResetKeyTraffic is not supported by the Outline management API; the local
// counter is zeroed regardless and converges on the next poll.
func (c *OutlineClient) ResetKeyTraffic(ctx context.Context, id string) error {
	c.logger.Debugw("traffic reset not supported, skipping", "key_id", id)
	return nil
}

func (c *OutlineClient) GetAllKeys(ctx context.Context) ([]RemoteKey, error) {
	rawKeys, err := c.listRaw(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]RemoteKey, 0, len(rawKeys))
	for i := range rawKeys {
		keys = append(keys, rawKeys[i].toRemoteKey())
	}
	return keys, nil
}

func (c *OutlineClient) listRaw(ctx context.Context) ([]rawKey, error) {
	data, err := c.do(ctx, http.MethodGet, "/access-keys", nil)
	if err != nil {
		return nil, err
	}
	return decodeKeyList(data)
}

func (c *OutlineClient) SyncConfig(ctx context.Context) error {
	return nil
}

func (c *OutlineClient) Close() {
	c.httpClient.CloseIdleConnections()
}
