// Package paymentprovider реализует клиент платёжного шлюза Mollie (API v2).
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/breaker"
	"github.com/magabrotheeeer/prorated-billing/internal/metrics"
)

// ErrPaymentNotFound возвращается, когда шлюз не знает платёж с таким id.
var ErrPaymentNotFound = errors.New("payment not found")

// Client вызывает API Mollie с bearer API-ключом.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[any]
}

// NewClient создаёт новый клиент Mollie.
func NewClient(cfg config.Mollie, cbCfg config.CircuitBreaker, log *slog.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.mollie.com/v2"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         breaker.New("mollie", cbCfg, log, ErrPaymentNotFound),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreatePayment создаёт платёж. Каждый вызов получает собственный Idempotency-Key,
// поэтому повтор запроса транспортом не создаёт второй платёж.
func (c *Client) CreatePayment(ctx context.Context, reqParams CreatePaymentRequest) (*Payment, error) {
	const op = "paymentprovider.CreatePayment"

	req, err := c.newRequest(ctx, http.MethodPost, "/payments", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())

	payment, err := c.execute("CreatePayment", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// GetPayment возвращает актуальное состояние платежа.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "paymentprovider.GetPayment"

	req, err := c.newRequest(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment, err := c.execute("GetPayment", req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

func (c *Client) execute(operation string, req *http.Request) (*Payment, error) {
	start := time.Now()
	payment, err := breaker.Execute(c.cb, func() (*Payment, error) {
		return c.send(req)
	})

	res := "ok"
	switch {
	case breaker.IsOpen(err):
		res = "rejected"
	case err != nil && !errors.Is(err, ErrPaymentNotFound):
		res = "error"
	}
	metrics.ExternalDuration.WithLabelValues("mollie", operation, res).Observe(time.Since(start).Seconds())

	return payment, err
}

func (c *Client) send(req *http.Request) (*Payment, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrPaymentNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
			return nil, fmt.Errorf("unexpected status %s: %s", resp.Status, apiErr.Detail)
		}
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
