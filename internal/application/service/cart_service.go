package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/google/uuid"
)

// CartItem is one title in a cart. Price and stock are snapshots of the
// catalog row taken when the book was added; AvailableStock is a hint for
// capping edits, the checkout transaction does the authoritative check.
type CartItem struct {
	BookID         uuid.UUID `json:"book_id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	UnitPrice      int64     `json:"-"` // cents
	Quantity       int       `json:"quantity"`
	Discount       int64     `json:"-"` // per-unit discount in cents
	AvailableStock int       `json:"available_stock"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ci CartItem) MarshalJSON() ([]byte, error) {
	type Alias CartItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
	}{
		Alias:     Alias(ci),
		UnitPrice: float64(ci.UnitPrice) / 100,
		Discount:  float64(ci.Discount) / 100,
	})
}

// Cart holds one cashier's in-progress sale. A fresh cart is empty, has no
// customer, zero global discount and cash payment.
type Cart struct {
	Items           []CartItem         `json:"items"`
	GlobalDiscount  float64            `json:"global_discount"` // percentage 0..100
	CustomerID      string             `json:"customer_id"`     // empty until a customer is selected
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email"`
	PaymentMethod   enum.PaymentMethod `json:"payment_method"`
}

// CartTotals is a totals snapshot computed from the cart contents.
type CartTotals struct {
	SubTotal int64 `json:"-"` // cents
	Discount int64 `json:"-"` // cents
	Total    int64 `json:"-"` // cents
	Items    int   `json:"items"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t CartTotals) MarshalJSON() ([]byte, error) {
	type Alias CartTotals
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"subtotal"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(t),
		SubTotal: float64(t.SubTotal) / 100,
		Discount: float64(t.Discount) / 100,
		Total:    float64(t.Total) / 100,
	})
}

// NewCart returns a cart in its default state.
func NewCart() *Cart {
	return &Cart{
		Items:          []CartItem{},
		GlobalDiscount: 0,
		PaymentMethod:  enum.PaymentMethodCash,
	}
}

// Reset returns the cart to its default state after a completed sale.
func (c *Cart) Reset() {
	c.Items = []CartItem{}
	c.GlobalDiscount = 0
	c.CustomerID = ""
	c.CustomerName = ""
	c.CustomerPhone = ""
	c.CustomerEmail = ""
	c.PaymentMethod = enum.PaymentMethodCash
}

// clone returns a deep copy of the cart. Service methods hand out clones so
// callers never share memory with the live cart behind the service mutex.
func (c *Cart) clone() *Cart {
	copied := *c
	copied.Items = make([]CartItem, len(c.Items))
	copy(copied.Items, c.Items)
	return &copied
}

// findItem returns the index of the item for bookID, or -1.
func (c *Cart) findItem(bookID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			return i
		}
	}
	return -1
}

// Totals computes the totals snapshot. The aggregate discount is the sum of
// per-unit line discounts times quantity, plus the global percentage applied
// to the subtotal. Total is always subtotal minus discount; when the combined
// discounts exceed the subtotal the total goes negative, as it does on the
// register screen.
func (c *Cart) Totals() CartTotals {
	var subTotal, lineDiscounts int64
	var items int

	for _, item := range c.Items {
		subTotal += item.UnitPrice * int64(item.Quantity)
		lineDiscounts += item.Discount * int64(item.Quantity)
		items += item.Quantity
	}

	globalDiscount := int64(float64(subTotal) * c.GlobalDiscount / 100)
	discount := lineDiscounts + globalDiscount

	return CartTotals{
		SubTotal: subTotal,
		Discount: discount,
		Total:    subTotal - discount,
		Items:    items,
	}
}

// CartService keeps one cart per signed-in cashier. Carts live in memory for
// the lifetime of the process; an abandoned cart costs nothing because stock
// is only reserved at checkout.
type CartService struct {
	mu       sync.Mutex
	carts    map[uuid.UUID]*Cart
	bookRepo repository.BookRepository
}

// NewCartService creates a new cart service
func NewCartService(bookRepo repository.BookRepository) *CartService {
	return &CartService{
		carts:    make(map[uuid.UUID]*Cart),
		bookRepo: bookRepo,
	}
}

// Get returns a snapshot of the cart for a user, creating an empty one on
// first use. Like every CartService method it returns a detached copy; the
// live cart never leaves the mutex.
func (s *CartService) Get(userID uuid.UUID) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID).clone()
}

func (s *CartService) getLocked(userID uuid.UUID) *Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = NewCart()
		s.carts[userID] = cart
	}
	return cart
}

// AddItem puts a book in the cart or bumps its quantity. Bumping past the
// stock seen in the catalog right now leaves the line as it was; adding a
// title with no stock left is rejected, since the server has no greyed-out
// button to stop the request earlier.
func (s *CartService) AddItem(ctx context.Context, userID, bookID uuid.UUID) (*Cart, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	idx := cart.findItem(bookID)

	if idx >= 0 {
		item := &cart.Items[idx]
		item.AvailableStock = book.Stock
		if item.Quantity+1 <= book.Stock {
			item.Quantity++
		}
		return cart.clone(), nil
	}

	if book.Stock < 1 {
		return nil, apperror.NewConflictError(
			fmt.Sprintf("%s is out of stock", book.Title))
	}

	cart.Items = append(cart.Items, CartItem{
		BookID:         book.ID,
		Title:          book.Title,
		Author:         book.Author,
		UnitPrice:      book.Price,
		Quantity:       1,
		Discount:       0,
		AvailableStock: book.Stock,
	})
	return cart.clone(), nil
}

// ChangeQuantity applies a delta to a cart line's quantity. The change only
// takes effect when the result stays between 1 and the cached stock; an out
// of bounds delta leaves the line exactly as it was. Use RemoveItem to drop
// a line.
func (s *CartService) ChangeQuantity(ctx context.Context, userID, bookID uuid.UUID, delta int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	idx := cart.findItem(bookID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	item := &cart.Items[idx]
	next := item.Quantity + delta
	if next < 1 || next > item.AvailableStock {
		return cart.clone(), nil
	}

	item.Quantity = next
	return cart.clone(), nil
}

// UpdateDiscount sets the per-unit discount for a cart line, in cents.
// The discount cannot exceed the unit price.
func (s *CartService) UpdateDiscount(ctx context.Context, userID, bookID uuid.UUID, discount int64) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	idx := cart.findItem(bookID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	item := &cart.Items[idx]
	if discount < 0 {
		discount = 0
	}
	if discount > item.UnitPrice {
		return nil, apperror.NewBadRequestError("Discount cannot exceed the unit price")
	}

	item.Discount = discount
	return cart.clone(), nil
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(userID, bookID uuid.UUID) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	idx := cart.findItem(bookID)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Cart item")
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return cart.clone(), nil
}

// SetGlobalDiscount sets the order-level discount percentage.
func (s *CartService) SetGlobalDiscount(userID uuid.UUID, percent float64) (*Cart, error) {
	if percent < 0 || percent > 100 {
		return nil, apperror.NewBadRequestError("Discount must be between 0 and 100 percent")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	cart.GlobalDiscount = percent
	return cart.clone(), nil
}

// SetPaymentMethod selects how the sale will be paid.
func (s *CartService) SetPaymentMethod(userID uuid.UUID, method enum.PaymentMethod) (*Cart, error) {
	if !method.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	cart.PaymentMethod = method
	return cart.clone(), nil
}

// SelectCustomer attaches a customer to the sale, or detaches one when
// customer is nil.
func (s *CartService) SelectCustomer(userID uuid.UUID, customer *entity.Customer) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	if customer == nil {
		cart.CustomerID = ""
		cart.CustomerName = ""
		cart.CustomerPhone = ""
		cart.CustomerEmail = ""
		return cart.clone(), nil
	}

	cart.CustomerID = customer.ID.String()
	cart.CustomerName = customer.Name
	cart.CustomerPhone = customer.Phone
	cart.CustomerEmail = customer.Email
	return cart.clone(), nil
}

// Clear resets the cart to its default state.
func (s *CartService) Clear(userID uuid.UUID) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	cart.Reset()
	return cart.clone()
}

// RefreshStock re-reads catalog stock for every cart line and updates the
// cached availability hints. Quantities above the fresh stock are clamped.
func (s *CartService) RefreshStock(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.getLocked(userID).Items))
	for _, item := range s.getLocked(userID).Items {
		ids = append(ids, item.BookID)
	}
	s.mu.Unlock()

	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	stock := make(map[uuid.UUID]int, len(books))
	for _, b := range books {
		stock[b.ID] = b.Stock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.getLocked(userID)
	for i := range cart.Items {
		if fresh, ok := stock[cart.Items[i].BookID]; ok {
			cart.Items[i].AvailableStock = fresh
			if cart.Items[i].Quantity > fresh && fresh > 0 {
				cart.Items[i].Quantity = fresh
			}
		}
	}
	return cart.clone(), nil
}
