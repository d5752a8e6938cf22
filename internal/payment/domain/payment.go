/**
 * @description
 * Domain models for the payment-service. These are ephemeral request/response shapes;
 * nothing here is persisted.
 */
package domain

import (
	"encoding/json"
	"errors"
)

// ErrInvalidAmount is returned when decoding an amount that is neither a JSON number nor a
// numeric string.
var ErrInvalidAmount = errors.New("amount must be a number")

// Amount is a decimal amount kept in its textual form. It accepts both a JSON number and
// a numeric string.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return ErrInvalidAmount
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}

// PaymentRequest is the body accepted by POST /pay and POST /withdraw.
type PaymentRequest struct {
	Phone       string `json:"phone"`
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

// PaymentResponse is returned once the provider has accepted the request.
type PaymentResponse struct {
	ReferenceID string `json:"referenceId"`
}

// ErrorResponse carries either the provider's error payload or an error message.
type ErrorResponse struct {
	Error any `json:"error"`
}
