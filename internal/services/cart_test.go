package service_test

import (
	"sync"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	carrot = models.Product{ID: "20", Name: "Carrot", Price: 40, CategoryKey: "Vegetables"}
	apple  = models.Product{ID: "16", Name: "Apple", Price: 150, CategoryKey: "Fruits"}
	mango  = models.Product{ID: "17", Name: "Mango", Price: 30, CategoryKey: "Fruits"}
)

func mustAdd(t *testing.T, cart *service.CartStore, p models.Product) models.CartView {
	t.Helper()

	view, err := cart.Add(p)
	require.NoError(t, err)

	return view
}

func TestCartStore_Add(t *testing.T) {
	t.Run("Success - New Item Starts At One", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()

		// Act
		view := mustAdd(t, cart, carrot)

		// Assert
		require.Len(t, view.Items, 1)
		assert.Equal(t, "20", view.Items[0].ID)
		assert.Equal(t, 1, view.Items[0].Quantity)
		assert.Equal(t, 40.0, view.Total)
		assert.Equal(t, 1, view.ItemCount)
	})

	t.Run("Success - Same Id Merges", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, carrot)

		// Act
		view := mustAdd(t, cart, carrot)

		// Assert
		require.Len(t, view.Items, 1)
		assert.Equal(t, 2, view.Items[0].Quantity)
		assert.Equal(t, 80.0, view.Total)
	})

	t.Run("Success - Insertion Order Kept", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)
		mustAdd(t, cart, apple)

		items := cart.Items()

		require.Len(t, items, 2)
		assert.Equal(t, "16", items[0].ID)
		assert.Equal(t, "20", items[1].ID)
	})

	t.Run("Failure - Negative Price", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()

		// Act
		_, err := cart.Add(models.Product{ID: "x", Name: "Bad", Price: -1})

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
		assert.Empty(t, cart.Items())
		assert.Zero(t, cart.Version())
	})
}

func TestCartStore_SetQuantity(t *testing.T) {
	t.Run("Success - Sets Quantity", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, mango)

		view, err := cart.SetQuantity("17", 4)

		require.NoError(t, err)
		assert.Equal(t, 4, view.Items[0].Quantity)
		assert.Equal(t, 120.0, view.Total)
	})

	t.Run("Success - Zero Removes", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, mango)
		mustAdd(t, cart, carrot)

		view, err := cart.SetQuantity("17", 0)

		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "20", view.Items[0].ID)
	})

	t.Run("Success - Negative Removes", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, mango)

		view, err := cart.SetQuantity("17", -3)

		require.NoError(t, err)
		assert.Empty(t, view.Items)
		assert.Zero(t, view.Total)
	})

	t.Run("Failure - Unknown Id", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, mango)
		before := cart.Version()

		// Act
		_, err := cart.SetQuantity("404", 2)

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
		assert.Equal(t, before, cart.Version())
	})
}

func TestCartStore_Steppers(t *testing.T) {
	t.Run("Success - Increment", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)

		view, err := cart.Increment("16")

		require.NoError(t, err)
		assert.Equal(t, 2, view.ItemCount)
	})

	t.Run("Success - Decrement", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, apple)

		view, err := cart.Decrement("16")

		require.NoError(t, err)
		assert.Equal(t, 1, view.Items[0].Quantity)
	})

	t.Run("Success - Decrement Clamps At One", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		before := cart.Version()

		// Act
		view, err := cart.Decrement("16")

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 1, view.Items[0].Quantity)
		assert.Equal(t, before, cart.Version())
	})

	t.Run("Failure - Unknown Id", func(t *testing.T) {
		cart := service.NewCartStore()

		_, incErr := cart.Increment("nope")
		_, decErr := cart.Decrement("nope")

		assert.True(t, appErrors.HasCode(incErr, appErrors.ErrCodeNotFound))
		assert.True(t, appErrors.HasCode(decErr, appErrors.ErrCodeNotFound))
	})
}

func TestCartStore_RemoveAndClear(t *testing.T) {
	t.Run("Success - Remove Present", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)

		view := cart.Remove("16")

		require.Len(t, view.Items, 1)
		assert.Equal(t, "20", view.Items[0].ID)
	})

	t.Run("Success - Remove Absent Is No-op", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		before := cart.Version()

		view := cart.Remove("nope")

		assert.Len(t, view.Items, 1)
		assert.Equal(t, before, cart.Version())
	})

	t.Run("Success - Clear", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)

		view := cart.Clear()

		assert.NotNil(t, view.Items)
		assert.Empty(t, view.Items)
		assert.Zero(t, cart.Total())
		assert.Zero(t, cart.ItemCount())
	})
}

func TestCartStore_RemoveOrdered(t *testing.T) {
	t.Run("Success - Unchanged Cart Is Cleared", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)
		ordered := cart.Items()

		// Act
		view := cart.RemoveOrdered(cart.Version(), ordered)

		// Assert
		assert.Empty(t, view.Items)
		assert.Zero(t, cart.Total())
	})

	t.Run("Success - Later Additions Survive", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)
		version, ordered := cart.Version(), cart.Items()
		mustAdd(t, cart, carrot)
		mustAdd(t, cart, mango)

		// Act
		view := cart.RemoveOrdered(version, ordered)

		// Assert
		require.Len(t, view.Items, 2)
		assert.Equal(t, carrot.ID, view.Items[0].ID)
		assert.Equal(t, 1, view.Items[0].Quantity)
		assert.Equal(t, mango.ID, view.Items[1].ID)
		assert.Equal(t, 70.0, view.Total)
	})

	t.Run("Success - Lines Removed Meanwhile Are Skipped", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		version, ordered := cart.Version(), cart.Items()
		cart.Remove(apple.ID)
		mustAdd(t, cart, mango)

		// Act
		view := cart.RemoveOrdered(version, ordered)

		// Assert
		require.Len(t, view.Items, 1)
		assert.Equal(t, mango.ID, view.Items[0].ID)
	})
}

func TestCartStore_Totals(t *testing.T) {
	t.Run("Success - Empty Cart", func(t *testing.T) {
		cart := service.NewCartStore()

		assert.Zero(t, cart.Total())
		assert.Zero(t, cart.ItemCount())
	})

	t.Run("Success - Sum Of Price Times Quantity", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, apple)
		mustAdd(t, cart, carrot)
		_, err := cart.SetQuantity("20", 3)
		require.NoError(t, err)

		assert.Equal(t, 270.0, cart.Total())
		assert.Equal(t, 4, cart.ItemCount())
	})

	t.Run("Success - Decimal Prices Do Not Drift", func(t *testing.T) {
		cart := service.NewCartStore()
		mustAdd(t, cart, models.Product{ID: "a", Name: "A", Price: 0.1})
		mustAdd(t, cart, models.Product{ID: "b", Name: "B", Price: 0.2})

		assert.Equal(t, 0.3, cart.Total())
	})
}

func TestCartStore_Items_ReturnsCopy(t *testing.T) {
	cart := service.NewCartStore()
	mustAdd(t, cart, apple)

	items := cart.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestCartStore_Subscribe(t *testing.T) {
	t.Run("Success - Receives Latest Snapshot", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		updates, cancel := cart.Subscribe()
		defer cancel()

		// Act
		mustAdd(t, cart, apple)
		mustAdd(t, cart, apple)

		// Assert
		select {
		case view := <-updates:
			assert.Equal(t, 2, view.ItemCount)
			assert.Equal(t, uint64(2), view.Version)
		case <-time.After(time.Second):
			t.Fatal("no cart update received")
		}
	})

	t.Run("Success - Cancel Detaches Only That Subscriber", func(t *testing.T) {
		// Arrange
		cart := service.NewCartStore()
		first, cancelFirst := cart.Subscribe()
		second, cancelSecond := cart.Subscribe()
		defer cancelSecond()

		// Act
		cancelFirst()
		cancelFirst()
		mustAdd(t, cart, carrot)

		// Assert
		_, open := <-first
		assert.False(t, open)

		select {
		case view := <-second:
			assert.Equal(t, 1, view.ItemCount)
		case <-time.After(time.Second):
			t.Fatal("remaining subscriber missed the update")
		}
	})
}

func TestCartStore_ConcurrentAdds(t *testing.T) {
	cart := service.NewCartStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cart.Add(carrot)
		}()
	}
	wg.Wait()

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 50, items[0].Quantity)
	assert.Equal(t, uint64(50), cart.Version())
}
