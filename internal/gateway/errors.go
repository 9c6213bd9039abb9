package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors of the payment lifecycle. Adapter-level errors propagate
// through the lifecycle controller unchanged in kind; the controller adds
// only ErrPhaseViolation for out-of-order phase calls.
var (
	// ErrInvalidAmount means the amount is below the adapter's minimum.
	// Detected before any network call, never retried.
	ErrInvalidAmount = errors.New("amount is below the bank's minimum")

	// ErrGatewayTimeout means a bank call hit the transport deadline.
	// Retryable by the caller at the pay phase only.
	ErrGatewayTimeout = errors.New("bank gateway timed out")

	// ErrVerificationInconclusive means both verify and inquiry reported
	// failure; the transaction is reversed best-effort and cancelled.
	ErrVerificationInconclusive = errors.New("verification inconclusive")

	// ErrSettlementFailed means settle failed after a successful verify.
	// The record stays non-terminal and needs manual reconciliation.
	ErrSettlementFailed = errors.New("settlement failed after successful verify")

	// ErrPhaseViolation means a lifecycle phase was invoked out of order,
	// e.g. verify before a callback delivered a bank reference.
	ErrPhaseViolation = errors.New("lifecycle phase called out of order")

	// ErrRecordNotFound means no transaction exists for the tracking code.
	ErrRecordNotFound = errors.New("transaction record not found")
)

// SettingDoesNotExistError reports a missing required adapter setting.
// Fatal at adapter construction.
type SettingDoesNotExistError struct {
	Bank BankType
	Key  string
}

func (e *SettingDoesNotExistError) Error() string {
	return fmt.Sprintf("%s: required setting %q does not exist", e.Bank, e.Key)
}

// BankGatewayRejectPaymentError reports that the bank declined the
// initiate-sale call. Reason carries the translated status text.
type BankGatewayRejectPaymentError struct {
	Bank   BankType
	Code   string
	Reason string
}

func (e *BankGatewayRejectPaymentError) Error() string {
	return fmt.Sprintf("%s rejected the payment: %s", e.Bank, e.Reason)
}
