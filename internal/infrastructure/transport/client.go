// Package transport talks to the external calculation service.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arf/areacheck/internal/domain"
	"github.com/arf/areacheck/internal/ports"
)

const maxResponseBytes = 1 << 20

// Client calls the calculation service with one canonical method.
type Client struct {
	endpoint   string
	method     string
	timeout    time.Duration
	httpClient *http.Client
	logger     ports.Logger
}

// NewClient builds a client from service settings. A nil httpClient uses
// http.DefaultClient.
func NewClient(settings domain.ServiceSettings, httpClient *http.Client, logger ports.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	method := strings.ToUpper(settings.Method)
	if method == "" {
		method = domain.MethodPost
	}
	return &Client{
		endpoint:   settings.Endpoint,
		method:     method,
		timeout:    settings.Timeout(),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Calculate implements ports.Calculator.
func (c *Client) Calculate(ctx context.Context, point domain.Point) (domain.ResultRecord, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := url.Values{}
	params.Set(domain.ParamX, point.XRaw)
	params.Set(domain.ParamY, point.YRaw)
	params.Set(domain.ParamR, point.RRaw)

	req, err := c.newRequest(ctx, params)
	if err != nil {
		return domain.ResultRecord{}, &domain.TransportError{Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("calling calculation service", map[string]interface{}{
		"method":     c.method,
		"endpoint":   c.endpoint,
		"request_id": requestID,
		"params":     params.Encode(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ResultRecord{}, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	var body bytes.Buffer
	if _, err := body.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return domain.ResultRecord{}, &domain.TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &domain.TransportError{Status: resp.StatusCode, Message: errorMessage(body.Bytes())}
		c.logger.Warn("calculation service rejected request", map[string]interface{}{
			"status":     resp.StatusCode,
			"request_id": requestID,
			"error":      terr.Error(),
		})
		return domain.ResultRecord{}, terr
	}

	record, err := decodeResult(body.Bytes())
	if err != nil {
		var terr *domain.TransportError
		if !errors.As(err, &terr) {
			terr = &domain.TransportError{Status: resp.StatusCode, Err: err}
		}
		terr.Status = resp.StatusCode
		return domain.ResultRecord{}, terr
	}
	return record, nil
}

// Probe implements ports.ServiceProber: any HTTP answer counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.Body.Close()
}

// Endpoint returns the configured service URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) newRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	switch c.method {
	case domain.MethodGet:
		target, err := url.Parse(c.endpoint)
		if err != nil {
			return nil, err
		}
		target.RawQuery = params.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	case domain.MethodPost:
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	default:
		return nil, fmt.Errorf("unsupported method %q", c.method)
	}
}

var (
	_ ports.Calculator    = (*Client)(nil)
	_ ports.ServiceProber = (*Client)(nil)
)
