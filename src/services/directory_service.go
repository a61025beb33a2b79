// src/services/directory_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/username/shiprecon/src/config"
	"github.com/username/shiprecon/src/logger"
	"github.com/username/shiprecon/src/models"
	"github.com/username/shiprecon/src/security"
	"github.com/username/shiprecon/src/utils"
)

const maxErrorBody = 512

type modeEndpoints struct {
	orders   string
	activity string
}

var directoryEndpoints = map[models.Mode]modeEndpoints{
	models.ModePrimary:   {orders: "/purchase-orders", activity: "/receipts"},
	models.ModeSecondary: {orders: "/sales-orders", activity: "/shipments"},
}

// directoryServiceImpl talks to the order-management REST API.
type directoryServiceImpl struct {
	baseURL    string
	keyName    string
	httpClient http.Client
	auth       security.Authorizer
	limiter    *rate.Limiter
}

// NewDirectoryService creates the HTTP directory client. Outbound calls are
// throttled by the configured rate limiter and authorized by auth.
func NewDirectoryService(cfg *config.AppConfig, auth security.Authorizer) DirectoryService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	burst := cfg.DirectoryBurst
	if burst < 1 {
		burst = 1
	}

	keyName := ""
	if mode := auth.Mode(); mode == config.AuthModeHeader || mode == config.AuthModeQuery {
		keyName = cfg.DirectoryKeyName
	}

	return &directoryServiceImpl{
		baseURL: cfg.DirectoryBaseURL,
		keyName: keyName,
		httpClient: http.Client{
			Jar:     jar,
			Timeout: cfg.DirectoryTimeout,
		},
		auth:    auth,
		limiter: rate.NewLimiter(rate.Limit(cfg.DirectoryRate), burst),
	}
}

func (s *directoryServiceImpl) FetchOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.OrderRecord, error) {
	ep, err := endpointsFor(mode)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	found, err := s.getJSON(ctx, ep.orders, url.Values{"orderNumber": {orderNumber}}, &raw)
	if err != nil || !found {
		return nil, err
	}
	return decodeOrder(raw)
}

// decodeOrder accepts a single order object or a list of them, in which case
// the first entry is used.
func decodeOrder(raw json.RawMessage) (*models.OrderRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var list []*models.OrderRecord
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding order list: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list[0], nil
	}
	var order models.OrderRecord
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}
	return &order, nil
}

func (s *directoryServiceImpl) FetchActivityByOrder(ctx context.Context, mode models.Mode, orderNumber string) (*models.ActivityPayload, error) {
	return s.fetchActivity(ctx, mode, url.Values{"orderNumber": {orderNumber}})
}

func (s *directoryServiceImpl) FindActivityByTracking(ctx context.Context, mode models.Mode, tracking string, dateHint *time.Time) (*models.ActivityPayload, error) {
	params := url.Values{"tracking": {tracking}}
	if dateHint != nil {
		params.Set("date", dateHint.UTC().Format(utils.ISODay))
	}
	return s.fetchActivity(ctx, mode, params)
}

func (s *directoryServiceImpl) fetchActivity(ctx context.Context, mode models.Mode, params url.Values) (*models.ActivityPayload, error) {
	ep, err := endpointsFor(mode)
	if err != nil {
		return nil, err
	}

	var payload models.ActivityPayload
	found, err := s.getJSON(ctx, ep.activity, params, &payload)
	if err != nil || !found {
		return nil, err
	}
	return &payload, nil
}

// getJSON performs an authorized GET and decodes the body into out. It
// reports found=false for 404.
func (s *directoryServiceImpl) getJSON(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	resp, err := s.do(ctx, path, params)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, fmt.Errorf("%w: %s returned %d: %s", ErrDirectoryStatus, path, resp.StatusCode, bytes.TrimSpace(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return true, nil
}

func (s *directoryServiceImpl) do(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")
	if err := s.auth.Authorize(req); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call directory %s: %w", path, err)
	}
	logger.L.Debug("Directory call", "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// Diagnose probes every activity endpoint with limit=1.
func (s *directoryServiceImpl) Diagnose(ctx context.Context) DiagReport {
	report := DiagReport{
		Base:    s.baseURL,
		Mode:    s.auth.Mode(),
		KeyName: s.keyName,
		Checked: time.Now().UTC(),
	}

	for _, mode := range models.BothModes {
		path := directoryEndpoints[mode].activity
		probe := ProbeResult{URL: s.baseURL + path}

		resp, err := s.do(ctx, path, url.Values{"limit": {"1"}})
		if err != nil {
			probe.Message = err.Error()
		} else {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			probe.Status = resp.StatusCode
			probe.OK = resp.StatusCode >= 200 && resp.StatusCode <= 299
			if !probe.OK {
				probe.Message = http.StatusText(resp.StatusCode)
			}
		}
		report.Results = append(report.Results, probe)
	}
	return report
}

func endpointsFor(mode models.Mode) (modeEndpoints, error) {
	ep, ok := directoryEndpoints[mode]
	if !ok {
		return modeEndpoints{}, fmt.Errorf("unknown mode %q", mode)
	}
	return ep, nil
}
