// Package pec integrates the Parsian (PEC) internet payment gateway. It is
// the reference adapter: a SOAP service speaking single-string result codes,
// with a hosted payment page reached by auto-submitting form POST.
package pec

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/yourorg/bank-gateway/internal/bank"
	"github.com/yourorg/bank-gateway/internal/gateway"
	"github.com/yourorg/bank-gateway/internal/transport"
)

const (
	defaultPaymentURL = "https://pec.shaparak.ir/NewIPG/"
	defaultServiceURL = "https://pec.shaparak.ir/NewIPGServices/Sale/SaleService.asmx"

	// callbackReferenceKey is the payload field carrying the bank token on
	// the redirect back from the payment page.
	callbackReferenceKey = "RefId"

	// saleReferenceFallback is the sentinel used when the callback carries
	// no SaleReferenceId. An explicit fallback, not an error.
	saleReferenceFallback = "1"

	minimumAmount = 1000
)

// Adapter is the PEC bank adapter.
type Adapter struct {
	client *transport.Client

	paymentURL string
	serviceURL string // overridable for tests

	terminalCode string
	username     string
	password     string
	configured   bool
}

// New creates a PEC adapter over the given transport client.
func New(client *transport.Client) *Adapter {
	if client == nil {
		client = transport.New()
	}
	return &Adapter{
		client:     client,
		paymentURL: defaultPaymentURL,
		serviceURL: defaultServiceURL,
	}
}

func (a *Adapter) BankType() gateway.BankType { return gateway.BankTypePEC }
func (a *Adapter) Currency() gateway.Currency { return gateway.CurrencyIRR }
func (a *Adapter) MinimumAmount() int64       { return minimumAmount }

// Configure validates the required PEC credentials and captures them.
func (a *Adapter) Configure(settings map[string]string) error {
	validated, err := bank.RequireSettings(a.BankType(), settings, "TERMINAL_CODE", "USERNAME", "PASSWORD")
	if err != nil {
		return err
	}
	a.terminalCode = validated["TERMINAL_CODE"]
	a.username = validated["USERNAME"]
	a.password = validated["PASSWORD"]
	a.configured = true
	return nil
}

func (a *Adapter) PaymentURL() string                { return a.paymentURL }
func (a *Adapter) PaymentMethod() gateway.HTTPMethod { return gateway.MethodPost }

func (a *Adapter) PaymentParameters(rec *gateway.TransactionRecord) map[string]string {
	return map[string]string{
		"RefId":    rec.ReferenceNumber,
		"MobileNo": rec.MobileNumber,
	}
}

func (a *Adapter) payData(rec *gateway.TransactionRecord) map[string]string {
	return map[string]string{
		"LoginAccount":   a.password,
		"orderId":        rec.TrackingCode,
		"Amount":         strconv.FormatInt(rec.Amount, 10),
		"CallBackUrl":    rec.CallbackURL,
		"AdditionalData": fmt.Sprintf("Purchase with tracking code - %s", rec.TrackingCode),
		"Originator":     rec.MobileNumber,
	}
}

// Pay performs the SalePayment call. The service answers "status,token";
// status "0" means the token is the bank reference. Any other shape,
// including a response that does not split, is a rejection.
func (a *Adapter) Pay(ctx context.Context, rec *gateway.TransactionRecord) error {
	response, err := a.client.CallSOAP(ctx, a.serviceURL, "SalePayment", a.payData(rec))
	if err != nil {
		return err
	}

	parts := strings.SplitN(response, ",", 2)
	if len(parts) == 2 && parts[0] == bank.SuccessCode {
		rec.ReferenceNumber = parts[1]
		return nil
	}

	code := response
	if len(parts) == 2 {
		code = parts[0]
	}
	statusText := statusTable.Translate(code)
	rec.StatusText = statusText
	log.Printf("pec: SalePayment rejected for tracking code %s: %s", rec.TrackingCode, statusText)
	return &gateway.BankGatewayRejectPaymentError{Bank: a.BankType(), Code: code, Reason: statusText}
}

// HandleCallback extracts the RefId token from the redirect-back payload.
// A payload without it is an incomplete callback and leaves the record
// untouched.
func (a *Adapter) HandleCallback(rec *gateway.TransactionRecord, payload map[string]string) bool {
	token := bank.CallbackValue(payload, callbackReferenceKey, "")
	if token == "" {
		return false
	}
	rec.ReferenceNumber = token
	rec.SaleReferenceID = bank.CallbackValue(payload, "SaleReferenceId", saleReferenceFallback)
	if err := rec.SetExtraInformation(payload); err != nil {
		log.Printf("pec: could not serialize callback payload for tracking code %s: %v", rec.TrackingCode, err)
	}
	return true
}

func (a *Adapter) verifyData(rec *gateway.TransactionRecord) map[string]string {
	saleReferenceID := rec.SaleReferenceID
	if saleReferenceID == "" {
		saleReferenceID = bank.CallbackValue(rec.ExtraInformationMap(), "SaleReferenceId", saleReferenceFallback)
	}
	return map[string]string{
		"terminalId":      a.terminalCode,
		"userName":        a.username,
		"userPassword":    a.password,
		"orderId":         rec.TrackingCode,
		"saleOrderId":     rec.TrackingCode,
		"saleReferenceId": saleReferenceID,
	}
}

// Verify runs the verify chain: bpVerifyRequest, bpInquiryRequest as the
// fallback, then a best-effort reversal when both report failure. A success
// at either step moves on to Settle.
func (a *Adapter) Verify(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	data := a.verifyData(rec)

	verifyResult, err := a.client.CallSOAP(ctx, a.serviceURL, "bpVerifyRequest", data)
	if err != nil {
		return rec.Status, err
	}
	if verifyResult == bank.SuccessCode {
		return a.Settle(ctx, rec)
	}

	inquiryResult, err := a.client.CallSOAP(ctx, a.serviceURL, "bpInquiryRequest", data)
	if err != nil {
		return rec.Status, err
	}
	if inquiryResult == bank.SuccessCode {
		return a.Settle(ctx, rec)
	}

	log.Printf("pec: %v for tracking code %s (verify %q, inquiry %q), making reversal request",
		gateway.ErrVerificationInconclusive, rec.TrackingCode,
		statusTable.Translate(verifyResult), statusTable.Translate(inquiryResult))
	a.Reverse(ctx, rec)
	return gateway.StatusCancelByUser, nil
}

// Settle performs bpSettleRequest. A non-success code after a successful
// verify is the one genuinely ambiguous outcome: the transaction stays
// non-terminal and the failure is surfaced for manual reconciliation.
func (a *Adapter) Settle(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	settleResult, err := a.client.CallSOAP(ctx, a.serviceURL, "bpSettleRequest", a.verifyData(rec))
	if err != nil {
		return rec.Status, err
	}
	if settleResult == bank.SuccessCode {
		return gateway.StatusComplete, nil
	}
	statusText := statusTable.Translate(settleResult)
	rec.StatusText = statusText
	log.Printf("pec: gateway did not settle the payment for tracking code %s: %s", rec.TrackingCode, statusText)
	return gateway.StatusSettleFailed, fmt.Errorf("%w: %s", gateway.ErrSettlementFailed, statusText)
}

// Reverse issues bpReversalRequest. The outcome is logged, never surfaced:
// a reversal failure must not mask the verification outcome.
func (a *Adapter) Reverse(ctx context.Context, rec *gateway.TransactionRecord) {
	reversalResult, err := a.client.CallSOAP(ctx, a.serviceURL, "bpReversalRequest", a.verifyData(rec))
	if err != nil {
		log.Printf("pec: reversal request failed for tracking code %s: %v", rec.TrackingCode, err)
		return
	}
	if reversalResult != bank.SuccessCode {
		log.Printf("pec: reversal request was not successful for tracking code %s: %s",
			rec.TrackingCode, statusTable.Translate(reversalResult))
	}
}
