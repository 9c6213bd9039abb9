// Package reporting aggregates finished payment lifecycles into a
// settlement retrospective for operators.
package reporting

import (
	"time"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// LogEntry records the outcome of one payment lifecycle.
type LogEntry struct {
	Timestamp    time.Time
	TrackingCode string
	Bank         gateway.BankType
	Status       gateway.PaymentStatus
	Amount       int64
	Currency     gateway.Currency
	ErrorCode    string
}

// SettlementReport summarizes payment activity over a collection of
// lifecycle log entries.
type SettlementReport struct {
	TotalTransactions    int
	CompletedPayments    int
	CancelledPayments    int
	FailedPayments       int
	PendingSettlements   int // SETTLE_FAILED records awaiting reconciliation
	TotalAmountSettled   int64
	AmountByCurrency     map[gateway.Currency]int64
	ErrorBreakdown       map[string]int
	BankUsage            map[gateway.BankType]int
	DateFrom             time.Time
	DateTo               time.Time
	ProcessingDuration   time.Duration
}

// SettlementReporter generates settlement reports from log entries.
type SettlementReporter struct{}

// NewSettlementReporter creates a SettlementReporter.
func NewSettlementReporter() *SettlementReporter {
	return &SettlementReporter{}
}

// Generate analyzes lifecycle log entries into a SettlementReport. Only
// COMPLETE payments count toward settled amounts.
func (sr *SettlementReporter) Generate(logs []LogEntry) (*SettlementReport, error) {
	report := &SettlementReport{
		AmountByCurrency: make(map[gateway.Currency]int64),
		ErrorBreakdown:   make(map[string]int),
		BankUsage:        make(map[gateway.BankType]int),
	}
	if len(logs) == 0 {
		return report, nil
	}

	report.DateFrom = logs[0].Timestamp
	report.DateTo = logs[0].Timestamp

	for _, entry := range logs {
		report.TotalTransactions++

		if entry.Timestamp.Before(report.DateFrom) {
			report.DateFrom = entry.Timestamp
		}
		if entry.Timestamp.After(report.DateTo) {
			report.DateTo = entry.Timestamp
		}

		if entry.Bank != "" {
			report.BankUsage[entry.Bank]++
		}

		switch entry.Status {
		case gateway.StatusComplete:
			report.CompletedPayments++
			report.TotalAmountSettled += entry.Amount
			report.AmountByCurrency[entry.Currency] += entry.Amount
		case gateway.StatusCancelByUser:
			report.CancelledPayments++
		case gateway.StatusSettleFailed:
			report.PendingSettlements++
			if entry.ErrorCode != "" {
				report.ErrorBreakdown[entry.ErrorCode]++
			}
		case gateway.StatusError:
			report.FailedPayments++
			if entry.ErrorCode != "" {
				report.ErrorBreakdown[entry.ErrorCode]++
			}
		}
	}

	report.ProcessingDuration = report.DateTo.Sub(report.DateFrom)
	return report, nil
}
