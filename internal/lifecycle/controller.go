// Package lifecycle orchestrates the payment phase sequence: prepare-pay,
// pay, callback handling and the verify/settle/reverse chain. It enforces
// the status state machine, persists every transition through the record
// store, and converts adapter outcomes into canonical payment statuses.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/yourorg/bank-gateway/internal/bank"
	"github.com/yourorg/bank-gateway/internal/gateway"
	"github.com/yourorg/bank-gateway/internal/lifecycle/circuitbreaker"
	"github.com/yourorg/bank-gateway/internal/policy"
	"github.com/yourorg/bank-gateway/internal/store"
)

// Controller is the gateway core.
type Controller struct {
	registry *bank.Registry
	repo     store.Repository
	breaker  *circuitbreaker.CircuitBreaker
	enforcer *policy.Enforcer
}

// NewController wires the gateway core.
func NewController(registry *bank.Registry, repo store.Repository, breaker *circuitbreaker.CircuitBreaker, enforcer *policy.Enforcer) *Controller {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if repo == nil {
		panic("repository cannot be nil")
	}
	if breaker == nil {
		breaker = circuitbreaker.New()
	}
	if enforcer == nil {
		var err error
		enforcer, err = policy.NewEnforcer(policy.DefaultSettleRules())
		if err != nil {
			panic(fmt.Sprintf("default settle rules must compile: %v", err))
		}
	}
	return &Controller{registry: registry, repo: repo, breaker: breaker, enforcer: enforcer}
}

// transition moves the record to next, enforcing the monotonic state
// machine.
func transition(rec *gateway.TransactionRecord, next gateway.PaymentStatus) error {
	if rec.Status == next {
		return nil
	}
	if !rec.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: cannot move %s from %s to %s",
			gateway.ErrPhaseViolation, rec.TrackingCode, rec.Status, next)
	}
	rec.Status = next
	return nil
}

// PreparePay validates the amount against the bank's minimum, allocates a
// tracking code and persists a PENDING record. No network call happens
// here.
func (c *Controller) PreparePay(ctx context.Context, bankType gateway.BankType, amount int64, callbackURL, mobileNumber string) (*gateway.TransactionRecord, error) {
	adapter, err := c.registry.Get(bankType)
	if err != nil {
		return nil, err
	}
	if amount < adapter.MinimumAmount() {
		return nil, fmt.Errorf("%w: %d is below %s minimum %d",
			gateway.ErrInvalidAmount, amount, bankType, adapter.MinimumAmount())
	}

	rec := &gateway.TransactionRecord{
		TrackingCode: uuid.NewString(),
		Bank:         bankType,
		Amount:       amount,
		Currency:     adapter.Currency(),
		Status:       gateway.StatusPending,
		CallbackURL:  callbackURL,
		MobileNumber: mobileNumber,
	}
	if err := c.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Pay invokes the bank's initiate-sale call and, on success, returns the
// redirect descriptor for the payer's browser. A transport timeout leaves
// the record in PENDING so the caller may retry this phase; a bank
// rejection moves it to ERROR with the translated reason.
func (c *Controller) Pay(ctx context.Context, trackingCode string) (*gateway.RedirectDescriptor, error) {
	tracer := otel.Tracer("lifecycle")
	ctx, span := tracer.Start(ctx, "Lifecycle.Pay")
	defer span.End()

	rec, err := c.repo.Get(ctx, trackingCode)
	if err != nil {
		return nil, err
	}
	if rec.Status != gateway.StatusPending {
		return nil, fmt.Errorf("%w: pay requires a PENDING record, got %s", gateway.ErrPhaseViolation, rec.Status)
	}

	adapter, err := c.registry.Get(rec.Bank)
	if err != nil {
		return nil, err
	}

	bankName := string(rec.Bank)
	if !c.breaker.IsHealthy(bankName) {
		return nil, fmt.Errorf("lifecycle: circuit open for bank %s", bankName)
	}

	start := time.Now()
	payErr := adapter.Pay(ctx, rec)
	elapsed := time.Since(start).Seconds()

	switch {
	case payErr == nil:
		c.breaker.RecordSuccess(bankName)
		observePhase(bankName, "pay", outcomeSuccess, elapsed)
		if err := transition(rec, gateway.StatusRedirectedToBank); err != nil {
			return nil, err
		}
		if err := c.repo.Update(ctx, rec); err != nil {
			return nil, err
		}
		return bank.RedirectDescriptor(adapter, rec), nil

	case errors.Is(payErr, gateway.ErrGatewayTimeout):
		// Transport failure: the record stays PENDING and the caller may
		// retry the pay phase.
		c.breaker.RecordFailure(bankName)
		observePhase(bankName, "pay", outcomeFailure, elapsed)
		log.Printf("lifecycle: pay timed out for tracking code %s: %v", trackingCode, payErr)
		return nil, payErr

	default:
		observePhase(bankName, "pay", outcomeFailure, elapsed)
		if err := transition(rec, gateway.StatusError); err != nil {
			return nil, err
		}
		if err := c.repo.Update(ctx, rec); err != nil {
			return nil, err
		}
		return nil, payErr
	}
}

// PrepareVerifyFromGateway consumes the bank's callback. When the payload
// carries no bank reference the record is left untouched and false is
// returned; the caller must treat that as an invalid callback and must not
// proceed to verify.
func (c *Controller) PrepareVerifyFromGateway(ctx context.Context, trackingCode string, payload map[string]string) (bool, error) {
	tracer := otel.Tracer("lifecycle")
	ctx, span := tracer.Start(ctx, "Lifecycle.PrepareVerifyFromGateway")
	defer span.End()

	rec, err := c.repo.Get(ctx, trackingCode)
	if err != nil {
		return false, err
	}
	if rec.Status.IsTerminal() {
		log.Printf("lifecycle: callback for terminal record %s ignored", trackingCode)
		return false, nil
	}

	adapter, err := c.registry.Get(rec.Bank)
	if err != nil {
		return false, err
	}

	if !adapter.HandleCallback(rec, payload) {
		log.Printf("lifecycle: callback without bank reference for tracking code %s, record untouched", trackingCode)
		return false, nil
	}
	if err := transition(rec, gateway.StatusCallbackReceived); err != nil {
		return false, err
	}
	if err := c.repo.Update(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

// Verify runs the adapter's verify/settle/reverse chain and persists the
// final status. Calling it on an already-terminal record is a no-op that
// returns the stored status without contacting the bank. A settle failure
// is retried under the settle policy; when retries are exhausted the
// record moves to SETTLE_FAILED and gateway.ErrSettlementFailed is
// surfaced for manual reconciliation.
func (c *Controller) Verify(ctx context.Context, trackingCode string) (gateway.PaymentStatus, error) {
	tracer := otel.Tracer("lifecycle")
	ctx, span := tracer.Start(ctx, "Lifecycle.Verify")
	defer span.End()

	rec, err := c.repo.Get(ctx, trackingCode)
	if err != nil {
		return "", err
	}
	if rec.Status.IsTerminal() {
		return rec.Status, nil
	}
	if rec.Status != gateway.StatusCallbackReceived && rec.Status != gateway.StatusSettleFailed {
		return rec.Status, fmt.Errorf("%w: verify requires a received callback, record %s is %s",
			gateway.ErrPhaseViolation, trackingCode, rec.Status)
	}
	if rec.ReferenceNumber == "" {
		return rec.Status, fmt.Errorf("%w: record %s has no bank reference", gateway.ErrPhaseViolation, trackingCode)
	}

	adapter, err := c.registry.Get(rec.Bank)
	if err != nil {
		return rec.Status, err
	}

	bankName := string(rec.Bank)
	start := time.Now()
	status, verifyErr := adapter.Verify(ctx, rec)

	if errors.Is(verifyErr, gateway.ErrSettlementFailed) {
		status, verifyErr = c.retrySettle(ctx, adapter, rec)
	}
	elapsed := time.Since(start).Seconds()

	if verifyErr != nil && !errors.Is(verifyErr, gateway.ErrSettlementFailed) {
		// Transport-level failure somewhere in the chain: nothing is
		// persisted, the chain re-runs from current bank-side state.
		observePhase(bankName, "verify", outcomeFailure, elapsed)
		return rec.Status, verifyErr
	}

	outcome := outcomeSuccess
	if status != gateway.StatusComplete {
		outcome = outcomeFailure
	}
	observePhase(bankName, "verify", outcome, elapsed)

	if err := transition(rec, status); err != nil {
		return rec.Status, err
	}
	if err := c.repo.Update(ctx, rec); err != nil {
		return rec.Status, err
	}
	return rec.Status, verifyErr
}

// retrySettle re-runs settle under the policy rules. The first attempt has
// already happened inside the adapter's verify chain.
func (c *Controller) retrySettle(ctx context.Context, adapter bank.Adapter, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	attempt := 1
	status := gateway.StatusSettleFailed
	settleErr := gateway.ErrSettlementFailed

	for {
		decision, err := c.enforcer.Evaluate(policy.Parameters{
			AttemptNumber: attempt,
			SettleSuccess: false,
			Amount:        rec.Amount,
			Bank:          string(rec.Bank),
		})
		if err != nil {
			return status, fmt.Errorf("%w: settle policy evaluation failed: %v", gateway.ErrSettlementFailed, err)
		}
		if !decision.AllowRetry {
			if decision.EscalateManual {
				log.Printf("lifecycle: settle retries exhausted for tracking code %s, escalating for manual reconciliation", rec.TrackingCode)
			}
			return status, settleErr
		}

		attempt++
		settleRetries.Inc()
		nextStatus, err := adapter.Settle(ctx, rec)
		if err == nil {
			return nextStatus, nil
		}
		if !errors.Is(err, gateway.ErrSettlementFailed) {
			// Transport failure during a retry: surface it, the caller
			// re-runs the verify chain later.
			return rec.Status, err
		}
		status, settleErr = nextStatus, err
		log.Printf("lifecycle: settle attempt %d failed for tracking code %s", attempt, rec.TrackingCode)
	}
}

// Get exposes the stored record for a tracking code.
func (c *Controller) Get(ctx context.Context, trackingCode string) (*gateway.TransactionRecord, error) {
	return c.repo.Get(ctx, trackingCode)
}
