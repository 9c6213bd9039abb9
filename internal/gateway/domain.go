// Package gateway holds the canonical payment domain model shared by the
// lifecycle controller, the bank adapters, and the record store: bank and
// currency enumerations, the payment status state machine, the transaction
// record aggregate, and the error taxonomy.
package gateway

import (
	"encoding/json"
	"time"
)

// BankType identifies a supported bank integration. Adding a bank means
// adding a value here and registering an adapter for it; the core never
// branches on concrete adapter types.
type BankType string

const (
	BankTypePEC  BankType = "PEC"
	BankTypeSEP  BankType = "SEP"
	BankTypeMock BankType = "MOCK"
)

// Currency is the gateway currency of an adapter, fixed at construction.
type Currency string

const (
	CurrencyIRR Currency = "IRR"
	CurrencyUSD Currency = "USD"
)

// HTTPMethod is how the payer's browser must reach the bank's hosted page.
type HTTPMethod string

const (
	MethodGet  HTTPMethod = "GET"
	MethodPost HTTPMethod = "POST"
)

// RedirectDescriptor tells the caller how to hand the payer over to the
// bank: either a plain redirect (GET) or an auto-submitting form (POST).
type RedirectDescriptor struct {
	URL        string            `json:"url"`
	Method     HTTPMethod        `json:"method"`
	Parameters map[string]string `json:"parameters"`
}

// TransactionRecord is the persisted representation of one payment attempt.
// It is owned by the lifecycle controller; adapters receive a reference and
// update only the fields relevant to their phase.
type TransactionRecord struct {
	ID              uint          `json:"id"`
	TrackingCode    string        `json:"trackingCode"`
	Bank            BankType      `json:"bank"`
	Amount          int64         `json:"amount"` // minor currency units
	Currency        Currency      `json:"currency"`
	Status          PaymentStatus `json:"status"`
	StatusText      string        `json:"statusText,omitempty"`
	ReferenceNumber string        `json:"referenceNumber,omitempty"`
	SaleReferenceID string        `json:"saleReferenceId,omitempty"`
	// ExtraInformation is the raw callback payload, serialized as JSON.
	// Written once, when the bank calls back.
	ExtraInformation string    `json:"extraInformation,omitempty"`
	CallbackURL      string    `json:"callbackUrl"`
	MobileNumber     string    `json:"mobileNumber,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SetExtraInformation serializes the callback payload onto the record.
func (r *TransactionRecord) SetExtraInformation(payload map[string]string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.ExtraInformation = string(raw)
	return nil
}

// ExtraInformationMap deserializes the stored callback payload. A record
// that has not seen a callback yet yields an empty map.
func (r *TransactionRecord) ExtraInformationMap() map[string]string {
	out := map[string]string{}
	if r.ExtraInformation == "" {
		return out
	}
	if err := json.Unmarshal([]byte(r.ExtraInformation), &out); err != nil {
		return map[string]string{}
	}
	return out
}
