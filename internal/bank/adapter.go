// Package bank defines the contract every bank integration implements and
// the registry the lifecycle controller resolves adapters from. Adapters
// translate between a bank's private protocol and the canonical domain
// model; they never own a transaction record's lifecycle.
package bank

import (
	"context"
	"fmt"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// SuccessCode is the conventional sentinel meaning success across the
// supported banks. Adapters compare response codes against it; every other
// value is a failure code resolved through the adapter's status table for
// diagnostics only.
const SuccessCode = "0"

// Adapter is the common contract of a bank integration.
type Adapter interface {
	// BankType identifies the integration.
	BankType() gateway.BankType

	// Currency is the gateway currency, fixed at construction.
	Currency() gateway.Currency

	// MinimumAmount is the per-bank floor on transaction amounts, in minor
	// currency units. Amounts below it are rejected before any network call.
	MinimumAmount() int64

	// Configure validates and stores the adapter's required settings. A
	// missing key fails with *gateway.SettingDoesNotExistError.
	Configure(settings map[string]string) error

	// PaymentURL, PaymentParameters and PaymentMethod together describe how
	// the payer's browser reaches the bank's hosted payment page.
	PaymentURL() string
	PaymentParameters(rec *gateway.TransactionRecord) map[string]string
	PaymentMethod() gateway.HTTPMethod

	// Pay performs the bank's initiate-sale call. On success the bank's
	// reference number is stored on the record; on rejection the translated
	// reason is stored as status text and the call fails with
	// *gateway.BankGatewayRejectPaymentError.
	Pay(ctx context.Context, rec *gateway.TransactionRecord) error

	// HandleCallback extracts the bank's reference from the callback
	// payload. A payload without the reference key is an incomplete
	// callback: the record is left untouched and false is returned. When
	// the reference is present it is stored together with the raw payload
	// as extra information, and true is returned.
	HandleCallback(rec *gateway.TransactionRecord, payload map[string]string) bool

	// Verify runs the verify chain against current bank-side state:
	// primary verify, inquiry fallback, then best-effort reversal. It
	// returns the resulting canonical status. A settle failure after a
	// successful verify returns StatusSettleFailed together with
	// gateway.ErrSettlementFailed.
	Verify(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error)

	// Settle finalizes a verified transaction.
	Settle(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error)

	// Reverse attempts to cancel a transaction that could not be settled.
	// Best-effort: failure is logged, never raised.
	Reverse(ctx context.Context, rec *gateway.TransactionRecord)
}

// RedirectDescriptor assembles the redirect surface of an adapter for a
// given record.
func RedirectDescriptor(a Adapter, rec *gateway.TransactionRecord) *gateway.RedirectDescriptor {
	return &gateway.RedirectDescriptor{
		URL:        a.PaymentURL(),
		Method:     a.PaymentMethod(),
		Parameters: a.PaymentParameters(rec),
	}
}

// Registry resolves adapters by bank type. The set of banks is closed at
// startup; no registration happens after wiring.
type Registry struct {
	adapters map[gateway.BankType]Adapter
}

// NewRegistry creates a Registry over the given adapters.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[gateway.BankType]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.BankType()] = a
	}
	return r
}

// Get returns the adapter for the bank type.
func (r *Registry) Get(bank gateway.BankType) (Adapter, error) {
	a, ok := r.adapters[bank]
	if !ok {
		return nil, fmt.Errorf("bank: no adapter registered for %s", bank)
	}
	return a, nil
}

// Banks lists the registered bank types.
func (r *Registry) Banks() []gateway.BankType {
	out := make([]gateway.BankType, 0, len(r.adapters))
	for bt := range r.adapters {
		out = append(out, bt)
	}
	return out
}
