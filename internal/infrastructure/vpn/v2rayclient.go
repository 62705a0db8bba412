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

// V2RayClient speaks to an Xray management panel over its REST API.
type V2RayClient struct {
	baseURL    string
	credential string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     logger.Interface
}

func NewV2RayClient(apiURL, credential string, timeout, connectTimeout time.Duration, insecureSkipVerify bool, log logger.Interface) *V2RayClient {
	base := strings.TrimRight(apiURL, "/")
	return &V2RayClient{
		baseURL:    base,
		credential: credential,
		httpClient: newHTTPClient(timeout, connectTimeout, insecureSkipVerify),
		breaker:    newBreaker("v2ray:"+base, log),
		logger:     log.Named("v2ray"),
	}
}

func (c *V2RayClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	return execute(c.breaker, func() ([]byte, error) {
		data, _, err := doJSON(ctx, c.httpClient, method, c.baseURL+path, c.credential, body)
		return data, err
	})
}

// CreateUser runs the mandatory sequence: create the key, fetch the ready
// link, sync-and-retry once when the link lacks reality parameters, then
// fall back to config synthesis. A key that was created remotely is always
// returned, even when no usable client config could be obtained.
func (c *V2RayClient) CreateUser(ctx context.Context, email, displayName string) (*KeyRecord, error) {
	name := displayName
	if name == "" {
		name = email
	}

	data, err := c.do(ctx, http.MethodPost, "/keys", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	record := createdKeyRecord(data)
	if record == nil {
		// Some panel builds answer the short create form with an empty
		// envelope and only honor the long form. Retry once before failing.
		data, err = c.do(ctx, http.MethodPost, "/keys", map[string]string{"name": name, "email": email})
		if err != nil {
			return nil, err
		}
		record = createdKeyRecord(data)
	}
	if record == nil {
		return nil, apperrors.NewBackendRejectedError("key creation response carried no id")
	}

	link, err := c.fetchLink(ctx, record.ID)
	if err == nil && linkComplete(link) {
		record.ClientConfig = link
		return record, nil
	}

	// The link endpoint serves stale parameters until the panel applies
	// its pending config. Sync once and retry.
	if syncErr := c.SyncConfig(ctx); syncErr != nil {
		c.logger.Warnw("config sync before link retry failed", "key_id", record.ID, "error", syncErr)
	}
	link, err = c.fetchLink(ctx, record.ID)
	if err == nil && linkComplete(link) {
		record.ClientConfig = link
		return record, nil
	}

	config, err := c.GetUserConfig(ctx, record.ID, ConfigParams{Email: email})
	if err == nil && config != "" {
		record.ClientConfig = config
		return record, nil
	}

	// The remote key exists; returning the partial record lets the caller
	// persist it and lets later bundle generation fetch the config fresh.
	c.logger.Warnw("created key without client config", "key_id", record.ID, "error", err)
	return record, nil
}

func (c *V2RayClient) fetchLink(ctx context.Context, id string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "/keys/"+url.PathEscape(id)+"/link", nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		VlessLink string `json:"vless_link"`
		Link      string `json:"link"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode link response: %w", err)
	}
	if resp.VlessLink != "" {
		return resp.VlessLink, nil
	}
	return resp.Link, nil
}

// linkComplete checks the link carries the server-generated reality
// parameters. A link without them is unusable and must never be patched up
// with invented values.
func linkComplete(link string) bool {
	if !strings.HasPrefix(link, "vless://") {
		return false
	}
	return strings.Contains(link, "sni=") && strings.Contains(link, "sid=")
}

func (c *V2RayClient) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/keys/"+url.PathEscape(id), nil)
	if err != nil {
		if isKeyMissing(err) {
			// Already gone counts as deleted.
			c.logger.Debugw("delete of missing key treated as success", "key_id", id)
			return nil
		}
		return err
	}
	return nil
}

func (c *V2RayClient) GetUserConfig(ctx context.Context, id string, params ConfigParams) (string, error) {
	link, err := c.fetchLink(ctx, id)
	if err == nil && strings.HasPrefix(link, "vless://") {
		return link, nil
	}

	query := url.Values{}
	if params.Domain != "" {
		query.Set("domain", params.Domain)
	}
	if params.Email != "" {
		query.Set("email", params.Email)
	}
	path := "/keys/" + url.PathEscape(id) + "/config"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Config string `json:"config"`
		Link   string `json:"link"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		// Some panels serve the config as a bare string.
		return strings.Trim(strings.TrimSpace(string(data)), `"`), nil
	}
	if resp.Config != "" {
		return resp.Config, nil
	}
	return resp.Link, nil
}

func (c *V2RayClient) GetTrafficHistory(ctx context.Context) (map[string]int64, error) {
	data, err := c.do(ctx, http.MethodGet, "/traffic/history", nil)
	if err != nil {
		return nil, err
	}
	return decodeTrafficMap(data)
}

func (c *V2RayClient) GetKeyTrafficStats(ctx context.Context, id string) (*TrafficStats, error) {
	data, err := c.do(ctx, http.MethodGet, "/keys/"+url.PathEscape(id)+"/traffic", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Upload      int64  `json:"upload"`
		Download    int64  `json:"download"`
		Total       int64  `json:"total"`
		LastUpdated string `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode traffic stats: %w", err)
	}

	stats := &TrafficStats{
		UploadBytes:   resp.Upload,
		DownloadBytes: resp.Download,
		TotalBytes:    resp.Total,
	}
	if stats.TotalBytes == 0 {
		stats.TotalBytes = resp.Upload + resp.Download
	}
	if resp.LastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339, resp.LastUpdated); err == nil {
			stats.LastUpdated = ts
		}
	}
	return stats, nil
}

func (c *V2RayClient) GetKeyInfo(ctx context.Context, uuid string) (*RemoteKey, error) {
	keys, err := c.GetAllKeys(ctx)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		if keys[i].UUID == uuid {
			return &keys[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("key not found on backend")
}

func (c *V2RayClient) ResetKeyTraffic(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/keys/"+url.PathEscape(id)+"/traffic/reset", nil)
	return err
}

func (c *V2RayClient) GetAllKeys(ctx context.Context) ([]RemoteKey, error) {
	data, err := c.do(ctx, http.MethodGet, "/keys", nil)
	if err != nil {
		return nil, err
	}

	rawKeys, err := decodeKeyList(data)
	if err != nil {
		return nil, err
	}

	keys := make([]RemoteKey, 0, len(rawKeys))
	for i := range rawKeys {
		keys = append(keys, rawKeys[i].toRemoteKey())
	}
	return keys, nil
}

func (c *V2RayClient) SyncConfig(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/sync", nil)
	return err
}

func (c *V2RayClient) Close() {
	c.httpClient.CloseIdleConnections()
}
