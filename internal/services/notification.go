package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
)

type orderNotifier struct {
	email sendgrid.EmailService
}

// NewOrderNotifier sends order confirmations through the transactional email service.
func NewOrderNotifier(email sendgrid.EmailService) OrderNotifier {
	return &orderNotifier{email: email}
}

func (n *orderNotifier) SendOrderConfirmation(ctx context.Context, toEmail string, order *models.OrderRecord) error {

	if err := n.email.Send(ctx, orderConfirmationEmail(toEmail, order)); err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	return nil
}

func orderConfirmationEmail(toEmail string, order *models.OrderRecord) *models.EmailMessage {

	var text, rows strings.Builder

	fmt.Fprintf(&text, "Thanks for your order %s.\n\n", order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&text, "%d x %s  ₹%.2f\n", item.Quantity, item.Name, item.UnitPrice*float64(item.Quantity))
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>₹%.2f</td></tr>", item.Quantity, html.EscapeString(item.Name), item.UnitPrice*float64(item.Quantity))
	}

	fmt.Fprintf(&text, "\nTotal: ₹%.2f\n", order.TotalAmount)

	if addr := order.ShippingAddress; addr != nil {
		fmt.Fprintf(&text, "Delivering to: %s, %s\n", addr.Label, addr.Details)
	}

	htmlBody := fmt.Sprintf("<h2>Order %s confirmed</h2><table>%s</table><p><strong>Total: ₹%.2f</strong></p>",
		html.EscapeString(order.ID), rows.String(), order.TotalAmount)

	return &models.EmailMessage{
		To:          toEmail,
		Subject:     fmt.Sprintf("Your order %s is confirmed", order.ID),
		Content:     text.String(),
		HTMLContent: htmlBody,
		Categories:  []string{"order-confirmation"},
		CustomArgs:  map[string]string{"order_id": order.ID, "owner_id": order.OwnerID.String()},
	}
}
