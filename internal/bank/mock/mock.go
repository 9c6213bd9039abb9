// Package mock provides a bank adapter with injectable behavior for tests.
package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourorg/bank-gateway/internal/bank"
	"github.com/yourorg/bank-gateway/internal/gateway"
)

// Adapter is a mock implementation of bank.Adapter. Each operation calls
// the corresponding func when set, otherwise follows a default successful
// path, so a test only overrides what it exercises.
type Adapter struct {
	Type       gateway.BankType
	Cur        gateway.Currency
	Minimum    int64
	Required   []string

	ConfigureFunc      func(settings map[string]string) error
	PayFunc            func(ctx context.Context, rec *gateway.TransactionRecord) error
	HandleCallbackFunc func(rec *gateway.TransactionRecord, payload map[string]string) bool
	VerifyFunc         func(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error)
	SettleFunc         func(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error)
	ReverseFunc        func(ctx context.Context, rec *gateway.TransactionRecord)

	PayCalls     int
	VerifyCalls  int
	SettleCalls  int
	ReverseCalls int
}

// New creates a mock adapter with sensible defaults.
func New() *Adapter {
	return &Adapter{
		Type:    gateway.BankTypeMock,
		Cur:     gateway.CurrencyIRR,
		Minimum: 100,
	}
}

func (m *Adapter) BankType() gateway.BankType { return m.Type }
func (m *Adapter) Currency() gateway.Currency { return m.Cur }
func (m *Adapter) MinimumAmount() int64       { return m.Minimum }

func (m *Adapter) Configure(settings map[string]string) error {
	if m.ConfigureFunc != nil {
		return m.ConfigureFunc(settings)
	}
	_, err := bank.RequireSettings(m.Type, settings, m.Required...)
	return err
}

func (m *Adapter) PaymentURL() string                { return "https://bank.example/pay" }
func (m *Adapter) PaymentMethod() gateway.HTTPMethod { return gateway.MethodPost }

func (m *Adapter) PaymentParameters(rec *gateway.TransactionRecord) map[string]string {
	return map[string]string{"RefId": rec.ReferenceNumber}
}

func (m *Adapter) Pay(ctx context.Context, rec *gateway.TransactionRecord) error {
	m.PayCalls++
	if m.PayFunc != nil {
		return m.PayFunc(ctx, rec)
	}
	rec.ReferenceNumber = uuid.NewString()
	return nil
}

func (m *Adapter) HandleCallback(rec *gateway.TransactionRecord, payload map[string]string) bool {
	if m.HandleCallbackFunc != nil {
		return m.HandleCallbackFunc(rec, payload)
	}
	token := bank.CallbackValue(payload, "RefId", "")
	if token == "" {
		return false
	}
	rec.ReferenceNumber = token
	rec.SaleReferenceID = bank.CallbackValue(payload, "SaleReferenceId", "1")
	_ = rec.SetExtraInformation(payload)
	return true
}

func (m *Adapter) Verify(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	m.VerifyCalls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rec)
	}
	return m.Settle(ctx, rec)
}

func (m *Adapter) Settle(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	m.SettleCalls++
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, rec)
	}
	return gateway.StatusComplete, nil
}

func (m *Adapter) Reverse(ctx context.Context, rec *gateway.TransactionRecord) {
	m.ReverseCalls++
	if m.ReverseFunc != nil {
		m.ReverseFunc(ctx, rec)
	}
}
