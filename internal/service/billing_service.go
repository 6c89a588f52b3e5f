package service

import (
	"context"
	"errors"

	"coachpack/internal/config"
	"coachpack/internal/domain"
	"coachpack/internal/repository"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrBillingNotConfigured = errors.New("payment processor is not configured")
	ErrCheckoutNotPaid      = errors.New("checkout session has not been paid")
	ErrCheckoutMismatch     = errors.New("checkout session does not belong to this user")
)

// CheckoutSession is what the client needs to hand off to the hosted
// payment page.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// BillingService fronts the hosted payment processor. The application
// never touches card data or settlement; it creates a hosted checkout
// session for the premium plan and, once the client reports completion,
// verifies payment with the processor before upgrading the account.
type BillingService interface {
	CreateCheckoutSession(ctx context.Context, user *domain.User) (*CheckoutSession, error)
	ConfirmCheckout(ctx context.Context, user *domain.User, sessionID string) (*domain.User, error)
}

// billingService implements the BillingService interface using Stripe
// hosted checkout.
type billingService struct {
	userRepo repository.UserRepository
	cfg      config.StripeConfig
}

// NewBillingService creates a new instance of billingService.
func NewBillingService(userRepo repository.UserRepository, cfg config.StripeConfig) BillingService {
	stripe.Key = cfg.SecretKey
	return &billingService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// CreateCheckoutSession opens a hosted checkout for the premium plan.
func (s *billingService) CreateCheckoutSession(ctx context.Context, user *domain.User) (*CheckoutSession, error) {
	if s.cfg.SecretKey == "" || s.cfg.PremiumPriceID == "" {
		return nil, ErrBillingNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.PremiumPriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(user.ID.Hex()),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// ConfirmCheckout verifies a completed session with the processor and
// upgrades the user's plan. The client reference id on the session must
// match the calling user, so one user cannot redeem another's session.
func (s *billingService) ConfirmCheckout(ctx context.Context, user *domain.User, sessionID string) (*domain.User, error) {
	if s.cfg.SecretKey == "" {
		return nil, ErrBillingNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(sessionID, params)
	if err != nil {
		return nil, err
	}
	if sess.ClientReferenceID != user.ID.Hex() {
		return nil, ErrCheckoutMismatch
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrCheckoutNotPaid
	}

	if err := s.setPlan(ctx, user.ID, domain.PlanPremium); err != nil {
		return nil, err
	}
	user.Plan = domain.PlanPremium
	return user, nil
}

func (s *billingService) setPlan(ctx context.Context, id primitive.ObjectID, plan domain.PlanType) error {
	return s.userRepo.SetPlan(ctx, id, plan)
}
