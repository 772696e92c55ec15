package service

import (
	"context"
	"fmt"
	"log"

	"github.com/bookhaven/pos-api/internal/domain/entity"
	"github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/pkg/apperror"
	"github.com/bookhaven/pos-api/pkg/printer"
	"github.com/google/uuid"
)

// PrinterService composes receipts from bills and drives the thermal printer.
type PrinterService struct {
	printer      printer.Printer
	billRepo     repository.BillRepository
	settingsRepo repository.SettingsRepository
	printerType  string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	settingsRepo repository.SettingsRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		billRepo:     billRepo,
		settingsRepo: settingsRepo,
		printerType:  printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
			Address:   "Test Address",
			Phone:     "+91 00000 00000",
		},
		InvoiceNumber: "TEST-001",
		Date:          "Test Date",
		Cashier:       "System",
		Items: []entity.ReceiptItem{
			{Title: "Test Book 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Title: "Test Book 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Total:    20.00,
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// ComposeReceipt builds the printable receipt for a bill, pulling the store
// header from the saved settings.
func (s *PrinterService) ComposeReceipt(ctx context.Context, bill *entity.Bill) *entity.Receipt {
	header := entity.ReceiptHeader{StoreName: "BookHaven"}
	if settings, err := s.settingsRepo.Get(ctx); err == nil && settings != nil {
		if settings.Name != "" {
			header.StoreName = settings.Name
		}
		header.Address = settings.Address
		header.Phone = settings.Phone
		header.GSTIN = settings.GSTIN
	}

	receipt := &entity.Receipt{
		Header:        header,
		InvoiceNumber: bill.InvoiceNumber,
		Date:          bill.CreatedAt.Format("2006-01-02 15:04"),
		Cashier:       bill.CreatedByName,
		PaymentMethod: string(bill.PaymentMethod),
		SubTotal:      bill.GetSubTotalDecimal(),
		Discount:      bill.GetDiscountDecimal(),
		Total:         bill.GetTotalDecimal(),
	}

	if bill.CustomerID != GuestCustomerID && bill.CustomerName != "" {
		receipt.Customer = bill.CustomerName
	}

	for _, item := range bill.Items {
		title := item.Title
		if title == "" {
			title = "Book"
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Title:     title,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return receipt
}

// PrintBillReceipt fetches a bill (with items) and prints its receipt.
func (s *PrinterService) PrintBillReceipt(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetWithItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	receipt := s.ComposeReceipt(ctx, bill)

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (bill %s): %v", billID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNumber).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Title, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for shopping with us!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
