package gateway

// PaymentStatus is the canonical lifecycle state of a transaction. Bank
// specific response codes are mapped into these values by the adapters;
// nothing outside this package defines new states.
type PaymentStatus string

const (
	StatusPending          PaymentStatus = "PENDING"
	StatusRedirectedToBank PaymentStatus = "REDIRECTED_TO_BANK"
	StatusCallbackReceived PaymentStatus = "CALLBACK_RECEIVED"
	StatusComplete         PaymentStatus = "COMPLETE"
	StatusCancelByUser     PaymentStatus = "CANCEL_BY_USER"
	StatusSettleFailed     PaymentStatus = "SETTLE_FAILED"
	StatusError            PaymentStatus = "ERROR"
)

// validTransitions is the monotonic state machine. Terminal states have no
// entry: once COMPLETE or CANCEL_BY_USER is reached, nothing moves.
// SETTLE_FAILED is deliberately non-terminal so a later verify can re-run
// the settle chain from current bank-side state.
var validTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:          {StatusRedirectedToBank, StatusError},
	StatusRedirectedToBank: {StatusCallbackReceived, StatusError},
	StatusCallbackReceived: {StatusComplete, StatusCancelByUser, StatusSettleFailed, StatusError},
	StatusSettleFailed:     {StatusComplete, StatusCancelByUser, StatusSettleFailed},
}

// IsTerminal reports whether no further transition is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusCancelByUser
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
