// Package upi builds UPI deep-link payment strings. The frontend renders
// them as QR codes; nothing here talks to a payment network.
package upi

import (
	"fmt"
	"net/url"
)

// PaymentString returns a upi://pay deep link for the given payee and
// amount (whole currency units). note appears on the payer's confirmation
// screen, typically the loan reference.
func PaymentString(payeeID, payeeName string, amount int64, note string) string {
	q := url.Values{}
	q.Set("pa", payeeID)
	q.Set("pn", payeeName)
	q.Set("am", fmt.Sprintf("%d", amount))
	q.Set("cu", "INR")
	if note != "" {
		q.Set("tn", note)
	}
	return "upi://pay?" + q.Encode()
}
