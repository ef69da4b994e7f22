package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/writethrough"
	"github.com/google/uuid"
)

// OrderPublisher announces persisted orders to downstream consumers.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
}

// OrderNotifier tells the customer their order was placed.
type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, order *models.OrderRecord) error
}

type CheckoutService interface {
	Begin(ctx context.Context, sess *Session) (*models.CheckoutView, error)
	Confirm(ctx context.Context, sess *Session) (*models.CheckoutView, error)
	Retry(ctx context.Context, sess *Session) (*models.CheckoutView, error)
	Current(sess *Session) *models.CheckoutView
}

type checkoutAttempt struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	email       string
	state       models.CheckoutState
	summary     models.OrderSummary
	cartVersion uint64
	order       *models.OrderRecord
	errMsg      string
	attempts    int
	updatedAt   time.Time
}

// checkoutFlow is the per-session state machine:
// idle -> awaiting_confirmation -> submitting -> succeeded | failed.
type checkoutFlow struct {
	mu      sync.Mutex
	attempt *checkoutAttempt
}

func (f *checkoutFlow) reset() {
	f.mu.Lock()
	f.attempt = nil
	f.mu.Unlock()
}

type checkoutService struct {
	orders    repository.OrderRepository
	queue     writethrough.Enqueuer
	publisher OrderPublisher
	notifier  OrderNotifier
	timeout   time.Duration
}

// NewCheckoutService wires the order store and the post-order side effects.
// publisher and notifier may be nil.
func NewCheckoutService(orders repository.OrderRepository, queue writethrough.Enqueuer, publisher OrderPublisher, notifier OrderNotifier, timeout time.Duration) CheckoutService {
	return &checkoutService{
		orders:    orders,
		queue:     queue,
		publisher: publisher,
		notifier:  notifier,
		timeout:   timeout,
	}
}

func (s *checkoutService) Begin(ctx context.Context, sess *Session) (*models.CheckoutView, error) {

	ownerID, email, signedIn := sess.Identity()
	if !signedIn {
		return nil, errors.NotAuthenticatedError("Sign in to checkout")
	}

	view := sess.Cart().View()
	if len(view.Items) == 0 {
		return nil, errors.EmptyCartError()
	}

	summary := summaryOf(view, sess.Profile().SelectedAddress())

	sess.checkout.mu.Lock()
	defer sess.checkout.mu.Unlock()

	if a := sess.checkout.attempt; a != nil && a.state == models.CheckoutSubmitting {
		return nil, errors.BadRequestError("Order is already being submitted")
	}

	attempt := &checkoutAttempt{
		id:          uuid.New(),
		ownerID:     ownerID,
		email:       email,
		state:       models.CheckoutAwaitingConfirmation,
		summary:     summary,
		cartVersion: view.Version,
		updatedAt:   time.Now(),
	}
	sess.checkout.attempt = attempt

	middleware.LoggerFromContext(ctx).Info("Checkout started",
		slog.String("checkoutId", attempt.id.String()),
		slog.Int("itemCount", summary.ItemCount),
		slog.Float64("total", summary.Total))

	return attempt.view(), nil
}

// Confirm submits the current cart. If the cart changed since Begin the
// order is taken from its present contents.
func (s *checkoutService) Confirm(ctx context.Context, sess *Session) (*models.CheckoutView, error) {

	_, email, signedIn := sess.Identity()
	if !signedIn {
		return nil, errors.NotAuthenticatedError("Sign in to checkout")
	}

	view := sess.Cart().View()
	address := sess.Profile().SelectedAddress()

	sess.checkout.mu.Lock()

	attempt := sess.checkout.attempt
	if err := requireState(attempt, models.CheckoutAwaitingConfirmation, "Checkout is not awaiting confirmation"); err != nil {
		sess.checkout.mu.Unlock()
		return nil, err
	}

	if err := attempt.resnapshot(view, address); err != nil {
		sess.checkout.mu.Unlock()
		return nil, err
	}

	attempt.email = email
	attempt.state = models.CheckoutSubmitting
	attempt.attempts++
	attempt.updatedAt = time.Now()

	sess.checkout.mu.Unlock()

	return s.submit(ctx, sess, attempt)
}

// Retry resubmits a failed attempt, taking a fresh snapshot if the cart
// changed since the last one.
func (s *checkoutService) Retry(ctx context.Context, sess *Session) (*models.CheckoutView, error) {

	_, email, signedIn := sess.Identity()
	if !signedIn {
		return nil, errors.NotAuthenticatedError("Sign in to checkout")
	}

	view := sess.Cart().View()
	address := sess.Profile().SelectedAddress()

	sess.checkout.mu.Lock()

	attempt := sess.checkout.attempt
	if err := requireState(attempt, models.CheckoutFailed, "Only a failed checkout can be retried"); err != nil {
		sess.checkout.mu.Unlock()
		return nil, err
	}

	if err := attempt.resnapshot(view, address); err != nil {
		sess.checkout.mu.Unlock()
		return nil, err
	}

	attempt.email = email
	attempt.state = models.CheckoutSubmitting
	attempt.attempts++
	attempt.errMsg = ""
	attempt.updatedAt = time.Now()

	sess.checkout.mu.Unlock()

	return s.submit(ctx, sess, attempt)
}

func (s *checkoutService) Current(sess *Session) *models.CheckoutView {

	sess.checkout.mu.Lock()
	defer sess.checkout.mu.Unlock()

	if sess.checkout.attempt == nil {
		return &models.CheckoutView{State: models.CheckoutIdle}
	}

	return sess.checkout.attempt.view()
}

func requireState(attempt *checkoutAttempt, want models.CheckoutState, message string) error {

	if attempt == nil {
		return errors.NotFoundError("No checkout in progress")
	}

	switch attempt.state {
	case want:
		return nil
	case models.CheckoutSucceeded:
		return errors.CheckoutClosedError("Order has already been placed")
	case models.CheckoutSubmitting:
		return errors.BadRequestError("Order is already being submitted")
	}

	return errors.BadRequestError(message)
}

// submit persists the order outside the request's cancellation so a client
// that goes away mid-submit cannot leave the attempt half done.
func (s *checkoutService) submit(ctx context.Context, sess *Session, attempt *checkoutAttempt) (*models.CheckoutView, error) {

	logger := middleware.LoggerFromContext(ctx).With(
		slog.String("checkoutId", attempt.id.String()),
		slog.String("ownerId", attempt.ownerID.String()),
		slog.Int("attempt", attempt.attempts))

	// the summary is only mutated while the attempt is not submitting
	version := attempt.cartVersion
	record := &models.OrderRecord{
		OwnerID:         attempt.ownerID,
		Items:           append([]models.CartItem{}, attempt.summary.Items...),
		TotalAmount:     attempt.summary.Total,
		Status:          models.OrderStatusPaid,
		ShippingAddress: attempt.summary.ShippingAddress,
	}

	persistCtx, cancel := utils.WithDetachedTimeout(ctx, s.timeout)
	err := s.orders.CreateOrder(persistCtx, record)
	cancel()

	sess.checkout.mu.Lock()

	attempt.updatedAt = time.Now()

	if err != nil {
		attempt.state = models.CheckoutFailed
		attempt.errMsg = "Failed to place order"
		view := attempt.view()
		sess.checkout.mu.Unlock()

		logger.Error("Order submission failed", slog.String("error", err.Error()))
		metrics.RecordCheckoutOutcome("failed")

		return view, errors.DatabaseError("Failed to place order").WithError(err)
	}

	attempt.state = models.CheckoutSucceeded
	attempt.order = record
	view := attempt.view()
	sess.checkout.mu.Unlock()

	sess.Cart().RemoveOrdered(version, record.Items)

	logger.Info("Order placed", slog.String("orderId", record.ID), slog.Float64("total", record.TotalAmount))
	metrics.RecordCheckoutOutcome("succeeded")

	s.afterOrderPlaced(ctx, attempt.email, record)

	return view, nil
}

// afterOrderPlaced queues the event and the confirmation email. Both are
// best effort; the order is already stored.
func (s *checkoutService) afterOrderPlaced(ctx context.Context, email string, order *models.OrderRecord) {

	key := order.OwnerID.String()

	if s.publisher != nil {
		event := models.OrderPlacedEvent{
			OrderID:     order.ID,
			OwnerID:     order.OwnerID,
			TotalAmount: order.TotalAmount,
			ItemCount:   countOf(order.Items),
			PlacedAt:    order.CreatedAt,
		}
		s.queue.Enqueue(ctx, key, "order.publish", func(ctx context.Context) error {
			return s.publisher.PublishOrderPlaced(ctx, event)
		})
	}

	if s.notifier != nil && email != "" {
		s.queue.Enqueue(ctx, key, "order.email", func(ctx context.Context) error {
			return s.notifier.SendOrderConfirmation(ctx, email, order)
		})
	}
}

func summaryOf(view models.CartView, address *models.Address) models.OrderSummary {
	return models.OrderSummary{
		Items:           view.Items,
		ItemCount:       view.ItemCount,
		Total:           view.Total,
		ShippingAddress: address,
	}
}

// resnapshot replaces the summary when the cart moved past the snapshot
// version. Must hold the checkout lock.
func (a *checkoutAttempt) resnapshot(view models.CartView, address *models.Address) error {

	if view.Version == a.cartVersion {
		return nil
	}

	if len(view.Items) == 0 {
		return errors.EmptyCartError()
	}

	a.summary = summaryOf(view, address)
	a.cartVersion = view.Version

	return nil
}

func (a *checkoutAttempt) view() *models.CheckoutView {

	summary := a.summary
	summary.Items = append([]models.CartItem{}, a.summary.Items...)

	v := &models.CheckoutView{
		ID:        a.id,
		State:     a.state,
		Summary:   &summary,
		Error:     a.errMsg,
		Attempts:  a.attempts,
		UpdatedAt: a.updatedAt,
	}

	if a.order != nil {
		order := *a.order
		v.Order = &order
	}

	return v
}
