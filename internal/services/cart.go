package service

import (
	"sync"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// CartStore is the in-memory cart of one session. Items keep insertion order
// and every id appears at most once with a positive quantity.
type CartStore struct {
	mu      sync.Mutex
	items   []models.CartItem
	version uint64

	subs    map[int]chan models.CartView
	nextSub int
}

func NewCartStore() *CartStore {
	return &CartStore{
		items: []models.CartItem{},
		subs:  make(map[int]chan models.CartView),
	}
}

// Add puts one unit of product in the cart, merging with an existing row.
func (c *CartStore) Add(product models.Product) (models.CartView, error) {

	if product.ID == "" {
		return models.CartView{}, errors.AddValidationError("product_id", "must not be empty")
	}

	if product.Price < 0 {
		return models.CartView{}, errors.AddValidationError("unit_price", "must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(product.ID); i >= 0 {
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, models.CartItem{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
			ImageRef:  product.ImageRef,
		})
	}

	return c.commitLocked("add"), nil
}

// SetQuantity sets the quantity of id; n <= 0 removes the row.
func (c *CartStore) SetQuantity(id string, n int) (models.CartView, error) {

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return c.viewLocked(), errors.NotFoundError("Cart item not found").WithDetail("no cart item with id '" + id + "'")
	}

	if n <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return c.commitLocked("remove"), nil
	}

	c.items[i].Quantity = n

	return c.commitLocked("set_quantity"), nil
}

// Increment adds one unit to an existing row.
func (c *CartStore) Increment(id string) (models.CartView, error) {

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return c.viewLocked(), errors.NotFoundError("Cart item not found").WithDetail("no cart item with id '" + id + "'")
	}

	c.items[i].Quantity++

	return c.commitLocked("increment"), nil
}

// Decrement lowers the quantity of id but never below 1; use Remove to drop a row.
func (c *CartStore) Decrement(id string) (models.CartView, error) {

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return c.viewLocked(), errors.NotFoundError("Cart item not found").WithDetail("no cart item with id '" + id + "'")
	}

	if c.items[i].Quantity <= 1 {
		return c.viewLocked(), nil
	}

	c.items[i].Quantity--

	return c.commitLocked("decrement"), nil
}

// Remove deletes id if present.
func (c *CartStore) Remove(id string) models.CartView {

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return c.viewLocked()
	}

	c.items = append(c.items[:i], c.items[i+1:]...)

	return c.commitLocked("remove")
}

// Clear empties the cart.
func (c *CartStore) Clear() models.CartView {

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = []models.CartItem{}

	return c.commitLocked("clear")
}

// Total is the sum of unit price times quantity, rounded to two decimals.
func (c *CartStore) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return totalOf(c.items)
}

func (c *CartStore) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return countOf(c.items)
}

func (c *CartStore) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]models.CartItem{}, c.items...)
}

// Version increases on every mutation, so equal versions mean equal contents.
func (c *CartStore) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.version
}

func (c *CartStore) View() models.CartView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.viewLocked()
}

// RemoveOrdered takes ordered lines out of the cart after checkout. When the
// cart is still at version the whole cart was ordered and it is cleared;
// otherwise only the ordered quantities are subtracted so later additions stay.
func (c *CartStore) RemoveOrdered(version uint64, ordered []models.CartItem) models.CartView {

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version == version {
		c.items = []models.CartItem{}
		return c.commitLocked("clear")
	}

	changed := false
	for _, o := range ordered {

		i := c.indexLocked(o.ID)
		if i < 0 {
			continue
		}

		changed = true
		if c.items[i].Quantity <= o.Quantity {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity -= o.Quantity
		}
	}

	if !changed {
		return c.viewLocked()
	}

	return c.commitLocked("remove_ordered")
}

// Subscribe returns a channel that receives the cart after every mutation and
// a cancel func that detaches it. Slow readers only ever see the latest cart.
func (c *CartStore) Subscribe() (<-chan models.CartView, func()) {

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++

	ch := make(chan models.CartView, 1)
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()

			delete(c.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

func (c *CartStore) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}

	return -1
}

func (c *CartStore) viewLocked() models.CartView {
	return models.CartView{
		Items:     append([]models.CartItem{}, c.items...),
		Total:     totalOf(c.items),
		ItemCount: countOf(c.items),
		Version:   c.version,
	}
}

func (c *CartStore) commitLocked(op string) models.CartView {

	c.version++
	metrics.RecordCartMutation(op)

	view := c.viewLocked()

	for _, ch := range c.subs {
		select {
		case ch <- view:
		default:
			// drop the stale snapshot; this goroutine is the only sender
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}

	return view
}

func totalOf(items []models.CartItem) float64 {

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total.Round(2).InexactFloat64()
}

func countOf(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}

	return n
}
