package handler

import (
	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/domain/enum"
	"github.com/bookhaven/pos-api/internal/presentation/http/dto/response"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POSHandler handles the point of sale endpoints: the cashier's cart and
// checkout.
type POSHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
	customerService *service.CustomerService
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	customerService *service.CustomerService,
) *POSHandler {
	return &POSHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
		customerService: customerService,
	}
}

type cartResponse struct {
	Cart   *service.Cart      `json:"cart"`
	Totals service.CartTotals `json:"totals"`
}

func cartWithTotals(cart *service.Cart) cartResponse {
	return cartResponse{Cart: cart, Totals: cart.Totals()}
}

// GetCart returns the signed-in cashier's cart with a totals snapshot
func (h *POSHandler) GetCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	cart := h.cartService.Get(*userID)
	response.OK(c, "Cart retrieved successfully", cartWithTotals(cart))
}

type addItemRequest struct {
	BookID string `json:"book_id" binding:"required"`
}

// AddItem adds one unit of a book to the cart
func (h *POSHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), *userID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cartWithTotals(cart))
}

type changeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ChangeQuantity applies a quantity delta to a cart line
func (h *POSHandler) ChangeQuantity(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.ChangeQuantity(c.Request.Context(), *userID, bookID, req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated", cartWithTotals(cart))
}

type updateDiscountRequest struct {
	Discount float64 `json:"discount"` // per-unit discount in currency units
}

// UpdateDiscount sets the per-unit discount on a cart line
func (h *POSHandler) UpdateDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req updateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	discountCents := int64(req.Discount * 100)
	cart, err := h.cartService.UpdateDiscount(c.Request.Context(), *userID, bookID, discountCents)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount updated", cartWithTotals(cart))
}

// RemoveItem removes a line from the cart
func (h *POSHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	cart, err := h.cartService.RemoveItem(*userID, bookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cartWithTotals(cart))
}

type globalDiscountRequest struct {
	Percent float64 `json:"percent"`
}

// SetGlobalDiscount sets the cart-wide percentage discount
func (h *POSHandler) SetGlobalDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	var req globalDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.SetGlobalDiscount(*userID, req.Percent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Global discount updated", cartWithTotals(cart))
}

type paymentMethodRequest struct {
	Method enum.PaymentMethod `json:"method" binding:"required"`
}

// SetPaymentMethod sets the payment method for the sale
func (h *POSHandler) SetPaymentMethod(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.SetPaymentMethod(*userID, req.Method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method updated", cartWithTotals(cart))
}

type selectCustomerRequest struct {
	CustomerID *string `json:"customer_id"` // null detaches the customer
}

// SelectCustomer attaches a customer to the sale, or detaches with a null ID
func (h *POSHandler) SelectCustomer(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	var req selectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.CustomerID == nil {
		cart, err := h.cartService.SelectCustomer(*userID, nil)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Customer detached", cartWithTotals(cart))
		return
	}

	customerID, err := uuid.Parse(*req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.cartService.SelectCustomer(*userID, customer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer selected", cartWithTotals(cart))
}

// ClearCart resets the cart to its default state
func (h *POSHandler) ClearCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	cart := h.cartService.Clear(*userID)
	response.OK(c, "Cart cleared", cartWithTotals(cart))
}

// RefreshStock reloads live stock figures for every line in the cart
func (h *POSHandler) RefreshStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrNotAuthenticated)
		return
	}

	cart, err := h.cartService.RefreshStock(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock refreshed", cartWithTotals(cart))
}

// Checkout commits the sale atomically and returns the created bill
func (h *POSHandler) Checkout(c *gin.Context) {
	input := &service.CheckoutInput{UserName: GetUserName(c)}
	if userID := GetUserID(c); userID != nil {
		input.UserID = *userID
	}

	bill, err := h.checkoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", bill)
}

// NextInvoiceNumber previews the invoice number the next checkout will use
func (h *POSHandler) NextInvoiceNumber(c *gin.Context) {
	number, err := h.checkoutService.NextInvoiceNumber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next invoice number retrieved", gin.H{"invoice_number": number})
}
