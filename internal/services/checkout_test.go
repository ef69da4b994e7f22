package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderPlacedEvent
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, event models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

type recordingNotifier struct {
	mu  sync.Mutex
	out []string
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, toEmail string, _ *models.OrderRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.out = append(n.out, toEmail)

	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.out...)
}

type checkoutFixture struct {
	svc       service.CheckoutService
	orders    *mocks.OrderRepository
	publisher *recordingPublisher
	notifier  *recordingNotifier
	registry  *registryFixture
	account   *models.Account
	sess      *service.Session
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	f := &checkoutFixture{
		orders:    new(mocks.OrderRepository),
		publisher: &recordingPublisher{},
		notifier:  &recordingNotifier{},
		registry:  newRegistryFixture(t, defaultSessionConfig()),
		account:   &models.Account{ID: uuid.New(), Email: "asha@example.com", DisplayName: "Asha"},
	}
	f.svc = service.NewCheckoutService(f.orders, newTestQueue(t), f.publisher, f.notifier, time.Second)

	f.registry.profiles.On("GetProfile", mock.Anything, f.account.ID).Return(nil, false, nil).Once()
	f.registry.registry.HandleAuthEvent(context.Background(), signInEvent("s1", f.account))
	f.sess, _ = f.registry.registry.Get("s1")

	return f
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()

	_, err := f.sess.Cart().Add(apple)
	require.NoError(t, err)
	_, err = f.sess.Cart().Add(carrot)
	require.NoError(t, err)
	_, err = f.sess.Cart().SetQuantity(carrot.ID, 2)
	require.NoError(t, err)
}

func orderCreated(id string) func(context.Context, *models.OrderRecord) error {
	return func(_ context.Context, o *models.OrderRecord) error {
		o.ID = id
		o.CreatedAt = time.Now()
		return nil
	}
}

func TestCheckout_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Summary Snapshot", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		f.registry.profiles.On("SaveProfile", mock.Anything, mock.Anything).Return(nil)
		addr, _, err := f.sess.Profile().AddAddress(ctx, &models.AddAddressRequest{Label: "Home", Details: "12 MG Road"})
		require.NoError(t, err)

		// Act
		view, err := f.svc.Begin(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutAwaitingConfirmation, view.State)
		assert.Equal(t, 230.0, view.Summary.Total)
		assert.Equal(t, 3, view.Summary.ItemCount)
		require.NotNil(t, view.Summary.ShippingAddress)
		assert.Equal(t, addr.ID, view.Summary.ShippingAddress.ID)
	})

	t.Run("Failure - Guest Session", func(t *testing.T) {
		f := newCheckoutFixture(t)
		guest := f.registry.registry.GetOrCreate("guest")
		_, err := guest.Cart().Add(apple)
		require.NoError(t, err)

		_, err = f.svc.Begin(ctx, guest)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotAuthenticated))
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.svc.Begin(ctx, f.sess)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeEmptyCart))
		assert.Equal(t, models.CheckoutIdle, f.svc.Current(f.sess).State)
	})
}

func TestCheckout_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Order Stored Cart Cleared", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)

		f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.OrderRecord) bool {
			return o.OwnerID == f.account.ID && o.Status == models.OrderStatusPaid && o.TotalAmount == 230 && len(o.Items) == 2
		})).Return(orderCreated("order-1")).Once()

		// Act
		view, err := f.svc.Confirm(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSucceeded, view.State)
		require.NotNil(t, view.Order)
		assert.Equal(t, "order-1", view.Order.ID)
		assert.Zero(t, f.sess.Cart().ItemCount())

		assert.Eventually(t, func() bool { return f.publisher.count() == 1 }, time.Second, 5*time.Millisecond)
		assert.Eventually(t, func() bool { return len(f.notifier.sent()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"asha@example.com"}, f.notifier.sent())
		f.orders.AssertExpectations(t)
	})

	t.Run("Success - Cart Changed After Begin Orders Current Cart", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		_, err = f.sess.Cart().Add(mango)
		require.NoError(t, err)

		f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.OrderRecord) bool {
			return o.TotalAmount == 260 && len(o.Items) == 3
		})).Return(orderCreated("order-5")).Once()

		// Act
		view, err := f.svc.Confirm(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSucceeded, view.State)
		assert.Equal(t, 260.0, view.Summary.Total)
		assert.Equal(t, 4, view.Summary.ItemCount)
		assert.Zero(t, f.sess.Cart().ItemCount())
		f.orders.AssertExpectations(t)
	})

	t.Run("Failure - Cart Cleared After Begin", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		f.sess.Cart().Clear()

		// Act
		_, err = f.svc.Confirm(ctx, f.sess)

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeEmptyCart))
		assert.Equal(t, models.CheckoutAwaitingConfirmation, f.svc.Current(f.sess).State)
		f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		assert.Zero(t, f.publisher.count())
	})

	t.Run("Success - Items Added While Submitting Stay In Cart", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)

		f.orders.On("CreateOrder", mock.Anything, mock.Anything).
			Return(func(c context.Context, o *models.OrderRecord) error {
				if _, err := f.sess.Cart().Add(mango); err != nil {
					return err
				}
				if _, err := f.sess.Cart().Add(apple); err != nil {
					return err
				}
				return orderCreated("order-6")(c, o)
			}).Once()

		// Act
		view, err := f.svc.Confirm(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSucceeded, view.State)
		assert.Equal(t, 230.0, view.Order.TotalAmount)

		items := f.sess.Cart().Items()
		require.Len(t, items, 2)
		assert.Equal(t, apple.ID, items[0].ID)
		assert.Equal(t, 1, items[0].Quantity)
		assert.Equal(t, mango.ID, items[1].ID)
		assert.Equal(t, 1, items[1].Quantity)
	})

	t.Run("Success - Confirmation Goes To Changed Email", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		f.registry.auth.On("Reauthenticate", mock.Anything, f.account.ID, "secret1").Return(nil).Once()
		f.registry.auth.On("ChangeEmail", mock.Anything, f.account.ID, "new@example.com").Return(nil).Once()
		f.registry.profiles.On("SaveProfile", mock.Anything, mock.Anything).Return(nil).Maybe()

		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		newEmail := "new@example.com"
		_, _, err = f.sess.Profile().UpdateProfile(ctx, &models.UpdateProfileRequest{Email: &newEmail, CurrentPassword: "secret1"})
		require.NoError(t, err)

		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(orderCreated("order-7")).Once()

		// Act
		_, err = f.svc.Confirm(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		_, email, _ := f.sess.Identity()
		assert.Equal(t, "new@example.com", email)
		assert.Eventually(t, func() bool { return len(f.notifier.sent()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"new@example.com"}, f.notifier.sent())
	})

	t.Run("Success - Cancelled Request Still Persists", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)

		reqCtx, cancel := context.WithCancel(ctx)
		cancel()

		f.orders.On("CreateOrder", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).
			Return(orderCreated("order-2")).Once()

		// Act
		view, err := f.svc.Confirm(reqCtx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSucceeded, view.State)
	})

	t.Run("Failure - Persistence Error Keeps Cart", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		// Act
		view, err := f.svc.Confirm(ctx, f.sess)

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
		require.NotNil(t, view)
		assert.Equal(t, models.CheckoutFailed, view.State)
		assert.NotEmpty(t, view.Error)
		assert.Equal(t, 3, f.sess.Cart().ItemCount())
		assert.Zero(t, f.publisher.count())
	})

	t.Run("Failure - Terminal State Is One Shot", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(orderCreated("order-3")).Once()
		_, err = f.svc.Confirm(ctx, f.sess)
		require.NoError(t, err)

		// Act
		_, confirmErr := f.svc.Confirm(ctx, f.sess)
		_, retryErr := f.svc.Retry(ctx, f.sess)

		// Assert
		assert.True(t, appErrors.HasCode(confirmErr, appErrors.ErrCodeCheckoutClosed))
		assert.True(t, appErrors.HasCode(retryErr, appErrors.ErrCodeCheckoutClosed))
		f.orders.AssertNumberOfCalls(t, "CreateOrder", 1)
	})

	t.Run("Failure - Nothing Begun", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.svc.Confirm(ctx, f.sess)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Failure - Confirm From Failed", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
		_, _ = f.svc.Confirm(ctx, f.sess)

		_, err = f.svc.Confirm(ctx, f.sess)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}

func TestCheckout_Retry(t *testing.T) {
	ctx := context.Background()

	failOnce := func(t *testing.T, f *checkoutFixture) {
		t.Helper()
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)
		f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
		_, err = f.svc.Confirm(ctx, f.sess)
		require.Error(t, err)
	}

	t.Run("Success - Reuses Snapshot", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		failOnce(t, f)
		f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.OrderRecord) bool {
			return o.TotalAmount == 230
		})).Return(orderCreated("order-4")).Once()

		// Act
		view, err := f.svc.Retry(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSucceeded, view.State)
		assert.Equal(t, 2, view.Attempts)
		assert.Empty(t, view.Error)
	})

	t.Run("Success - Cart Changed Takes New Snapshot", func(t *testing.T) {
		// Arrange
		f := newCheckoutFixture(t)
		failOnce(t, f)
		f.sess.Cart().Remove(apple.ID)
		f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *models.OrderRecord) bool {
			return o.TotalAmount == 80 && len(o.Items) == 1
		})).Return(orderCreated("order-5")).Once()

		// Act
		view, err := f.svc.Retry(ctx, f.sess)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 80.0, view.Summary.Total)
	})

	t.Run("Failure - Cart Emptied", func(t *testing.T) {
		f := newCheckoutFixture(t)
		failOnce(t, f)
		f.sess.Cart().Clear()

		_, err := f.svc.Retry(ctx, f.sess)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeEmptyCart))
		assert.Equal(t, models.CheckoutFailed, f.svc.Current(f.sess).State)
	})

	t.Run("Failure - Not Failed", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.fillCart(t)
		_, err := f.svc.Begin(ctx, f.sess)
		require.NoError(t, err)

		_, err = f.svc.Retry(ctx, f.sess)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
	})
}

func TestCheckout_SignOutDropsAttempt(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t)
	_, err := f.svc.Begin(ctx, f.sess)
	require.NoError(t, err)

	// Act
	f.registry.registry.HandleAuthEvent(ctx, service.AuthEvent{SessionID: "s1", OwnerID: f.account.ID})

	// Assert
	assert.Equal(t, models.CheckoutIdle, f.svc.Current(f.sess).State)
	_, err = f.svc.Confirm(ctx, f.sess)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotAuthenticated))
}
