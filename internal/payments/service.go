package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"flowAdsBack/internal/fsm"
	"flowAdsBack/internal/models"
	"flowAdsBack/internal/store"
	"flowAdsBack/internal/timeutil"
)

const defaultDriverDescription = "Driver payment"

// Logger provides minimal logging required by the payment service.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Service owns payment ids, timestamps and validation. The store underneath
// is a passive container.
type Service struct {
	store store.Store
	log   Logger
	now   func() time.Time
}

// NewService wires a payment service over st.
func NewService(st store.Store, log Logger) *Service {
	return &Service{store: st, log: log, now: timeutil.Now}
}

// AddPayment assigns a fresh id and the current timestamp and appends the
// record. Amount and type checks are left to callers apart from the
// non-negative amount rule.
func (s *Service) AddPayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.Amount.IsNegative() {
		return models.Payment{}, models.ErrInvalidAmount
	}
	p.ID = models.NewID()
	p.CreatedAt = s.now()
	if err := s.store.Payments().Append(ctx, p); err != nil {
		return models.Payment{}, fmt.Errorf("append payment: %w", err)
	}
	if s.log != nil {
		s.log.Infof("payment %s recorded: user=%s type=%s amount=%s status=%s", p.ID, p.UserID, p.Type, p.Amount, p.Status)
	}
	return p, nil
}

// GetPayments returns the payments matching every supplied filter, in
// insertion order.
func (s *Service) GetPayments(ctx context.Context, f models.PaymentFilter) ([]models.Payment, error) {
	all, err := s.store.Payments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]models.Payment, 0, len(all))
	for _, p := range all {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetPayment returns a single payment by id.
func (s *Service) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	return s.store.Payments().Get(ctx, id)
}

// CreateDriverPayment records a pending payout to a driver.
func (s *Service) CreateDriverPayment(ctx context.Context, driverID string, amount decimal.Decimal, description string) (models.Payment, error) {
	if description == "" {
		description = defaultDriverDescription
	}
	return s.AddPayment(ctx, models.Payment{
		UserID:      driverID,
		Type:        models.DriverPayment,
		Amount:      amount,
		Description: description,
		Status:      models.PaymentPending,
	})
}

// ProcessAdvertiserPayment records an advertiser's campaign payment. No
// gateway is involved so the payment is completed immediately.
func (s *Service) ProcessAdvertiserPayment(ctx context.Context, advertiserID, campaignID string, amount decimal.Decimal, method models.PaymentMethodType) (models.Payment, error) {
	if method == "" {
		method = models.MethodCreditCard
	}
	return s.AddPayment(ctx, models.Payment{
		UserID:        advertiserID,
		CampaignID:    campaignID,
		Type:          models.AdvertiserPayment,
		Amount:        amount,
		Method:        string(method),
		Status:        models.PaymentCompleted,
		TransactionID: models.NewShortID("TXN-"),
	})
}

// UpdateStatus moves a payment to a new status if the transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (models.Payment, error) {
	if !status.Valid() {
		return models.Payment{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	p, err := s.store.Payments().Get(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	if !fsm.CanTransitionPayment(p.Status, status) {
		return models.Payment{}, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, p.Status, status)
	}
	if p.Status == status {
		return p, nil
	}
	p.Status = status
	if err := s.store.Payments().Replace(ctx, p); err != nil {
		return models.Payment{}, fmt.Errorf("replace payment: %w", err)
	}
	return p, nil
}

// AddPaymentMethod saves a payment instrument for a user.
func (s *Service) AddPaymentMethod(ctx context.Context, userID string, methodType models.PaymentMethodType, details map[string]string) (models.PaymentMethod, error) {
	if !methodType.Valid() {
		return models.PaymentMethod{}, fmt.Errorf("%w: payment method %q", models.ErrInvalidType, methodType)
	}
	m := models.PaymentMethod{
		ID:        models.NewID(),
		UserID:    userID,
		Type:      methodType,
		Details:   details,
		AddedDate: s.now(),
	}
	if err := s.store.Methods().Append(ctx, m); err != nil {
		return models.PaymentMethod{}, fmt.Errorf("append payment method: %w", err)
	}
	return m, nil
}

// GetPaymentMethods returns every method saved by the user.
func (s *Service) GetPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	methods, err := s.store.Methods().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// Summary filters payments and aggregates them.
func (s *Service) Summary(ctx context.Context, f models.PaymentFilter) (models.PaymentSummary, error) {
	list, err := s.GetPayments(ctx, f)
	if err != nil {
		return models.PaymentSummary{}, err
	}
	return Summarize(list), nil
}
