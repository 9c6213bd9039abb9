package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

func TestGenerate_EmptyLogs(t *testing.T) {
	report, err := NewSettlementReporter().Generate(nil)
	require.NoError(t, err)
	assert.Zero(t, report.TotalTransactions)
	assert.Empty(t, report.AmountByCurrency)
	assert.Empty(t, report.BankUsage)
}

func TestGenerate_Aggregation(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	logs := []LogEntry{
		{Timestamp: base, TrackingCode: "a", Bank: gateway.BankTypePEC, Status: gateway.StatusComplete, Amount: 10000, Currency: gateway.CurrencyIRR},
		{Timestamp: base.Add(time.Minute), TrackingCode: "b", Bank: gateway.BankTypePEC, Status: gateway.StatusCancelByUser, Amount: 5000, Currency: gateway.CurrencyIRR},
		{Timestamp: base.Add(2 * time.Minute), TrackingCode: "c", Bank: gateway.BankTypeSEP, Status: gateway.StatusComplete, Amount: 2500, Currency: gateway.CurrencyIRR},
		{Timestamp: base.Add(3 * time.Minute), TrackingCode: "d", Bank: gateway.BankTypeSEP, Status: gateway.StatusError, Amount: 700, Currency: gateway.CurrencyIRR, ErrorCode: "-112"},
		{Timestamp: base.Add(4 * time.Minute), TrackingCode: "e", Bank: gateway.BankTypePEC, Status: gateway.StatusSettleFailed, Amount: 900, Currency: gateway.CurrencyIRR, ErrorCode: "-1531"},
	}

	report, err := NewSettlementReporter().Generate(logs)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalTransactions)
	assert.Equal(t, 2, report.CompletedPayments)
	assert.Equal(t, 1, report.CancelledPayments)
	assert.Equal(t, 1, report.FailedPayments)
	assert.Equal(t, 1, report.PendingSettlements)

	assert.Equal(t, int64(12500), report.TotalAmountSettled)
	assert.Equal(t, int64(12500), report.AmountByCurrency[gateway.CurrencyIRR])

	assert.Equal(t, 3, report.BankUsage[gateway.BankTypePEC])
	assert.Equal(t, 2, report.BankUsage[gateway.BankTypeSEP])

	assert.Equal(t, 1, report.ErrorBreakdown["-112"])
	assert.Equal(t, 1, report.ErrorBreakdown["-1531"])

	assert.Equal(t, base, report.DateFrom)
	assert.Equal(t, base.Add(4*time.Minute), report.DateTo)
	assert.Equal(t, 4*time.Minute, report.ProcessingDuration)
}

func TestGenerate_OutOfOrderTimestamps(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	logs := []LogEntry{
		{Timestamp: base.Add(time.Hour), Status: gateway.StatusComplete, Amount: 1, Currency: gateway.CurrencyIRR},
		{Timestamp: base, Status: gateway.StatusComplete, Amount: 1, Currency: gateway.CurrencyIRR},
	}

	report, err := NewSettlementReporter().Generate(logs)
	require.NoError(t, err)
	assert.Equal(t, base, report.DateFrom)
	assert.Equal(t, base.Add(time.Hour), report.DateTo)
	assert.Equal(t, time.Hour, report.ProcessingDuration)
}
