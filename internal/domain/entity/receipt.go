package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is not a database entity; it is composed from bill data at print time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	InvoiceNumber string        `json:"invoice_number"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Customer      string        `json:"customer,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
}
