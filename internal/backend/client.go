// Package backend реализует клиент REST API CMS, в которой хранятся
// тарифные планы и биллинговые записи клиентов.
package backend

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
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/breaker"
	"github.com/magabrotheeeer/prorated-billing/internal/metrics"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

// ErrNotFound возвращается, когда клиент или план отсутствует в CMS.
var ErrNotFound = errors.New("not found")

// Client обращается к CMS по bearer-токену. Все вызовы идут через предохранитель.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[any]
	loc        *time.Location
	log        *slog.Logger
}

// New создаёт клиента CMS. Даты без времени трактуются в поясе loc.
func New(cfg config.Backend, cbCfg config.CircuitBreaker, loc *time.Location, log *slog.Logger) *Client {
	if loc == nil {
		loc = time.UTC
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         breaker.New("backend", cbCfg, log, ErrNotFound),
		loc:        loc,
		log:        log,
	}
}

// GetCustomerByEmail ищет биллинговую запись пользователя вместе с текущим планом.
func (c *Client) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	const op = "backend.GetCustomerByEmail"

	query := url.Values{}
	query.Set("filters[user_email][$eq]", email)
	query.Set("populate", "plan")

	customer, err := c.findCustomer(ctx, "GetCustomerByEmail", query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

// GetCustomer возвращает биллинговую запись по её идентификатору.
func (c *Client) GetCustomer(ctx context.Context, customerID int) (*models.Customer, error) {
	const op = "backend.GetCustomer"

	query := url.Values{}
	query.Set("filters[id][$eq]", strconv.Itoa(customerID))
	query.Set("populate", "plan")

	customer, err := c.findCustomer(ctx, "GetCustomer", query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

func (c *Client) findCustomer(ctx context.Context, operation string, query url.Values) (*models.Customer, error) {
	var resp listResponse[customerDTO]
	if err := c.do(ctx, operation, http.MethodGet, "/api/customers?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	return resp.Data[0].toModel(c.loc)
}

// GetPlan возвращает план по идентификатору.
func (c *Client) GetPlan(ctx context.Context, planID int) (*models.Plan, error) {
	const op = "backend.GetPlan"

	var resp itemResponse[planDTO]
	if err := c.do(ctx, "GetPlan", http.MethodGet, "/api/plans/"+strconv.Itoa(planID), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	plan := resp.Data.toModel()
	return &plan, nil
}

// ListPlans возвращает все планы, отсортированные по цене.
func (c *Client) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "backend.ListPlans"

	query := url.Values{}
	query.Set("sort", "price:asc")
	query.Set("pagination[pageSize]", "100")

	var resp listResponse[planDTO]
	if err := c.do(ctx, "ListPlans", http.MethodGet, "/api/plans?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans := make([]models.Plan, 0, len(resp.Data))
	for _, p := range resp.Data {
		plans = append(plans, p.toModel())
	}
	return plans, nil
}

// SetCustomerPlan записывает клиенту новый план и новый расчётный период.
func (c *Client) SetCustomerPlan(ctx context.Context, customerID int, change models.PlanChange) error {
	const op = "backend.SetCustomerPlan"

	body := updateCustomerRequest{Data: updateCustomerData{
		Plan:                  change.PlanID,
		SubscriptionStatus:    string(models.StatusActive),
		SubscriptionStartDate: formatDate(change.PeriodStart, c.loc),
		SubscriptionEndDate:   formatDate(change.PeriodEnd, c.loc),
		LastPaymentDate:       change.LastPaymentDate.UTC().Format(time.RFC3339),
	}}
	if change.TotalPaid.IsPositive() {
		body.Data.TotalPaid = &change.TotalPaid
	}

	if err := c.do(ctx, "SetCustomerPlan", http.MethodPut, "/api/customers/"+strconv.Itoa(customerID), body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	start := time.Now()
	_, err := breaker.Execute(c.cb, func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, path, body, out)
	})
	metrics.ExternalDuration.WithLabelValues("backend", operation, result(err)).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func result(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		return "ok"
	case breaker.IsOpen(err):
		return "rejected"
	default:
		return "error"
	}
}
