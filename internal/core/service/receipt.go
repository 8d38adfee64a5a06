package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/rl1809/food-delivery/internal/core/domain"
)

type ReceiptLine struct {
	Item      string
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

type Receipt struct {
	OrderID    string
	Customer   string
	Restaurant string
	Lines      []ReceiptLine
	Total      float64
	Status     domain.OrderStatus
	OrderedAt  time.Time
}

// RenderReceipt prices the order against the restaurant's current menu.
// Items no longer on the menu price at zero. Nothing is modified.
func RenderReceipt(order *domain.Order, user *domain.User, restaurant *domain.Restaurant) Receipt {
	r := Receipt{
		OrderID:    order.ID,
		Customer:   user.Name,
		Restaurant: restaurant.Name,
		Status:     order.Status,
		OrderedAt:  order.CreatedAt,
	}
	for _, line := range order.Items {
		price, _ := restaurant.Menus.Price(line.Item)
		subtotal := price * float64(line.Quantity)
		r.Lines = append(r.Lines, ReceiptLine{
			Item:      line.Item,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
		r.Total += subtotal
	}
	r.Total = roundCents(r.Total)
	return r
}

func (r Receipt) String() string {
	var b strings.Builder
	b.WriteString("--- Receipt ---\n")
	fmt.Fprintf(&b, "Customer: %s\n", r.Customer)
	fmt.Fprintf(&b, "Restaurant: %s\n", r.Restaurant)
	b.WriteString("Items:\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "  - %s: %d x $%.2f = $%.2f\n", l.Item, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	fmt.Fprintf(&b, "Total: $%.2f\n", r.Total)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Ordered at: %s\n", r.OrderedAt.Format(time.RFC3339))
	b.WriteString("---------------\n")
	return b.String()
}
