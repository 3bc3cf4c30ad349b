// Package upgrade проводит смену плана клиента с пропорциональным перерасчётом:
// предпросмотр стоимости, создание платежа или бесплатное применение, и
// применение оплаченного апгрейда по уведомлению платёжного шлюза.
//
// Изменения одного пользователя сериализуются блокировкой в Redis. Оплаченный
// апгрейд применяется из снимка расчёта, сделанного при создании платежа,
// и только если план клиента с тех пор не менялся.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/magabrotheeeer/prorated-billing/internal/backend"
	"github.com/magabrotheeeer/prorated-billing/internal/cache"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/prorate"
	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/metrics"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
	"github.com/magabrotheeeer/prorated-billing/internal/paymentprovider"
)

var (
	// ErrCustomerNotFound - у пользователя нет биллинговой записи.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrPlanNotFound - запрошенного плана нет в каталоге.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrUpgradeInProgress - другой апгрейд этого пользователя ещё выполняется.
	ErrUpgradeInProgress = errors.New("another upgrade for this customer is in progress")
	// ErrStaleUpgrade - план клиента изменился после создания платежа.
	ErrStaleUpgrade = errors.New("customer plan changed since the payment was created")
	// ErrGatewayUnavailable - платёжный шлюз недоступен, запрос можно повторить.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Backend - CMS с клиентами и планами.
type Backend interface {
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetCustomer(ctx context.Context, customerID int) (*models.Customer, error)
	GetPlan(ctx context.Context, planID int) (*models.Plan, error)
	SetCustomerPlan(ctx context.Context, customerID int, change models.PlanChange) error
}

// Gateway - платёжный шлюз.
type Gateway interface {
	CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error)
}

// Repository хранит снимки платежей и журнал.
type Repository interface {
	SaveCheckout(ctx context.Context, c models.UpgradeCheckout) error
	GetCheckout(ctx context.Context, paymentID string) (*models.UpgradeCheckout, error)
	UpdateCheckoutStatus(ctx context.Context, paymentID string, from, to models.CheckoutStatus) (bool, error)
	SavePaymentLog(ctx context.Context, l models.PaymentLog) (int, error)
	SaveFailedPayment(ctx context.Context, f models.FailedPayment) (int, error)
}

// Locker выдаёт блокировку с ограниченным временем жизни.
// Занятая блокировка возвращается как cache.ErrLocked, остальные ошибки - сбой хранилища.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// Publisher публикует события о смене плана.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Config параметры сервиса.
type Config struct {
	Currency    string
	RedirectURL string
	WebhookURL  string
	LockTTL     time.Duration
	Location    *time.Location
}

// Service оркестрирует апгрейды.
type Service struct {
	backend   Backend
	gateway   Gateway
	repo      Repository
	locker    Locker
	publisher Publisher
	cfg       Config
	now       func() time.Time
	log       *slog.Logger
}

// New создаёт сервис. now - источник текущего времени; nil означает time.Now.
func New(backend Backend, gateway Gateway, repo Repository, locker Locker, publisher Publisher,
	cfg Config, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &Service{
		backend:   backend,
		gateway:   gateway,
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		now:       now,
		log:       log,
	}
}

// Preview считает стоимость апгрейда без каких-либо изменений.
func (s *Service) Preview(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeQuote, error) {
	const op = "upgrade.Preview"

	_, calc, err := s.quote(ctx, user, newPlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.UpgradeQuote{
		Calculation:     *calc,
		Description:     prorate.DescribeUpgrade(*calc),
		PaymentRequired: !calc.IsFree(),
	}, nil
}

// Upgrade переводит пользователя на план newPlanID. Если кредита хватает,
// план меняется сразу; иначе создаётся платёж, а план меняется после оплаты.
func (s *Service) Upgrade(ctx context.Context, user models.User, newPlanID int) (*models.UpgradeResult, error) {
	const op = "upgrade.Upgrade"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("user_id", user.ID),
		slog.Int("new_plan_id", newPlanID),
	)

	release, err := s.lock(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrUpgradeInProgress) {
			metrics.UpgradeRequests.WithLabelValues("locked").Inc()
		} else {
			metrics.UpgradeRequests.WithLabelValues("error").Inc()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer s.unlock(release, log)

	customer, calc, err := s.quote(ctx, user, newPlanID)
	if err != nil {
		metrics.UpgradeRequests.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.UpgradeResult{
		Calculation:     *calc,
		Description:     prorate.DescribeUpgrade(*calc),
		PaymentRequired: !calc.IsFree(),
	}

	if calc.IsFree() {
		if err := s.applyFree(ctx, customer, calc, log); err != nil {
			metrics.UpgradeRequests.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics.UpgradeRequests.WithLabelValues("free").Inc()
		return result, nil
	}

	payment, err := s.createPayment(ctx, user, customer, calc, result.Description, log)
	if err != nil {
		metrics.UpgradeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.UpgradeRequests.WithLabelValues("checkout").Inc()

	result.PaymentID = payment.ID
	result.CheckoutURL = payment.CheckoutURL()
	return result, nil
}

// quote загружает клиента и план и считает апгрейд.
func (s *Service) quote(ctx context.Context, user models.User, newPlanID int) (*models.Customer, *models.ProRatedCalculation, error) {
	customer, err := s.backend.GetCustomerByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, nil, ErrCustomerNotFound
		}
		return nil, nil, err
	}

	newPlan, err := s.backend.GetPlan(ctx, newPlanID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, nil, ErrPlanNotFound
		}
		return nil, nil, err
	}

	if !prorate.IsUpgradeValid(customer.Plan, *newPlan) {
		return nil, nil, prorate.ErrInvalidUpgradeTarget
	}

	calc, err := prorate.CalculateUpgrade(*customer, *newPlan, s.now(), s.cfg.Location)
	if err != nil {
		return nil, nil, err
	}
	return customer, calc, nil
}

func (s *Service) applyFree(ctx context.Context, customer *models.Customer, calc *models.ProRatedCalculation, log *slog.Logger) error {
	now := s.now()
	change := s.planChange(calc.NewPlan, now)

	if err := s.backend.SetCustomerPlan(ctx, customer.ID, change); err != nil {
		return fmt.Errorf("set customer plan: %w", err)
	}
	metrics.PlanChanges.WithLabelValues("free").Inc()
	log.Info("plan upgraded with credit",
		slog.Int("customer_id", customer.ID),
		sl.Amount("credit", calc.UnusedAmount),
	)

	s.record(ctx, models.PaymentLog{
		CustomerID:     customer.ID,
		PaymentType:    models.PaymentTypeUpgradeFree,
		OriginalPlanID: calc.CurrentPlan.ID,
		NewPlanID:      calc.NewPlan.ID,
		AmountPaid:     calc.FinalAmountToPay,
		CreditApplied:  calc.UnusedAmount,
		PaymentDate:    now,
	}, log)

	s.notify(ctx, models.PlanUpgradedEvent{
		CustomerID:    customer.ID,
		UserEmail:     customer.UserEmail,
		OldPlanName:   calc.CurrentPlan.Name,
		NewPlanName:   calc.NewPlan.Name,
		AmountPaid:    calc.FinalAmountToPay,
		CreditApplied: calc.UnusedAmount,
		PeriodEnd:     change.PeriodEnd,
	}, log)
	return nil
}

func (s *Service) createPayment(ctx context.Context, user models.User, customer *models.Customer,
	calc *models.ProRatedCalculation, description string, log *slog.Logger) (*paymentprovider.Payment, error) {
	checkout := models.UpgradeCheckout{
		CustomerID:     customer.ID,
		UserID:         user.ID,
		OriginalPlanID: calc.CurrentPlan.ID,
		NewPlanID:      calc.NewPlan.ID,
		PeriodEnd:      *customer.SubscriptionEndDate,
		UnusedAmount:   calc.UnusedAmount,
		FinalAmount:    calc.FinalAmountToPay,
		AmountMinor:    prorate.AmountForGateway(*calc),
		Description:    description,
		Status:         models.CheckoutPending,
	}

	payment, err := s.gateway.CreatePayment(ctx, paymentprovider.CreatePaymentRequest{
		Amount:      paymentprovider.AmountFromMinor(checkout.AmountMinor, s.cfg.Currency),
		Description: description,
		RedirectURL: s.redirectURL(calc.NewPlan.ID),
		WebhookURL:  s.cfg.WebhookURL,
		CustomerID:  customer.MollieCustomerID,
		Metadata:    newCheckoutMetadata(checkout, user.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	metrics.ChargedCents.Observe(float64(checkout.AmountMinor))

	checkout.PaymentID = payment.ID
	if err := s.repo.SaveCheckout(ctx, checkout); err != nil {
		// снимок есть и в metadata платежа, подтверждение восстановит его оттуда
		log.Error("failed to save checkout snapshot", slog.String("payment_id", payment.ID), sl.Err(err))
	}

	log.Info("upgrade payment created",
		slog.String("payment_id", payment.ID),
		slog.Int("customer_id", customer.ID),
		sl.Amount("amount", calc.FinalAmountToPay),
	)
	return payment, nil
}

// planChange описывает новый период: с начала сегодняшнего дня на длительность периода плана.
func (s *Service) planChange(plan models.Plan, now time.Time) models.PlanChange {
	start := prorate.StartOfDay(now, s.cfg.Location)
	return models.PlanChange{
		PlanID:          plan.ID,
		PeriodStart:     start,
		PeriodEnd:       periodEnd(start, plan.BillingPeriod),
		LastPaymentDate: now,
	}
}

func periodEnd(start time.Time, period models.BillingPeriod) time.Time {
	if period == models.BillingYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

func (s *Service) redirectURL(planID int) string {
	u, err := url.Parse(s.cfg.RedirectURL)
	if err != nil {
		return s.cfg.RedirectURL
	}
	q := u.Query()
	q.Set("payment", "success")
	q.Set("plan", strconv.Itoa(planID))
	q.Set("upgrade", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Service) lock(ctx context.Context, userID int) (func(context.Context) error, error) {
	release, err := s.locker.Acquire(ctx, lockKey(userID), s.cfg.LockTTL)
	if errors.Is(err, cache.ErrLocked) {
		return nil, fmt.Errorf("%w: %w", ErrUpgradeInProgress, err)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return release, nil
}

func (s *Service) unlock(release func(context.Context) error, log *slog.Logger) {
	// блокировку снимаем и при отменённом контексте запроса
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := release(ctx); err != nil {
		log.Warn("failed to release upgrade lock", sl.Err(err))
	}
}

func lockKey(userID int) string {
	return "billing:upgrade:lock:user:" + strconv.Itoa(userID)
}

// record пишет журнал платежей. Ошибка не отменяет уже применённый апгрейд.
func (s *Service) record(ctx context.Context, entry models.PaymentLog, log *slog.Logger) {
	if _, err := s.repo.SavePaymentLog(ctx, entry); err != nil {
		log.Error("failed to save payment log", slog.Int("customer_id", entry.CustomerID), sl.Err(err))
	}
}

// notify публикует событие о смене плана. Ошибка только логируется.
func (s *Service) notify(ctx context.Context, event models.PlanUpgradedEvent, log *slog.Logger) {
	event.EventID = newEventID()
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("failed to publish plan upgraded event", slog.Int("customer_id", event.CustomerID), sl.Err(err))
	}
}
