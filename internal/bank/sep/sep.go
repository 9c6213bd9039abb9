// Package sep integrates the Saman (SEP) electronic payment gateway, a
// JSON-over-HTTP integration. Together with the SOAP-speaking pec adapter
// it shows that the adapter contract absorbs protocol heterogeneity: the
// lifecycle controller cannot tell them apart.
package sep

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cast"

	"github.com/yourorg/bank-gateway/internal/bank"
	"github.com/yourorg/bank-gateway/internal/gateway"
	"github.com/yourorg/bank-gateway/internal/gateway/codes"
	"github.com/yourorg/bank-gateway/internal/transport"
)

const (
	defaultPaymentURL = "https://sep.shaparak.ir/payment.aspx"
	defaultServiceURL = "https://sep.shaparak.ir/payments"

	callbackReferenceKey = "Token"

	minimumAmount = 100
)

var statusTable = codes.New(map[string]string{
	"0":   "Successful",
	"-1":  "Processing Error",
	"-3":  "Invalid Input Parameters",
	"-4":  "Merchant Authentication Failed",
	"-6":  "Transaction Already Reversed",
	"-10": "Invalid Token",
	"-11": "Token Is Expired",
	"-15": "Invalid Amount",
	"-17": "Canceled By User",
	"-18": "Merchant Ip Mismatch",
})

// StatusTable exposes the table for exhaustive translation tests.
func StatusTable() codes.Table {
	return statusTable
}

// Adapter is the SEP bank adapter.
type Adapter struct {
	client *transport.Client

	paymentURL string
	serviceURL string // overridable for tests

	merchantID string
	secretKey  string
}

// New creates a SEP adapter over the given transport client.
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

func (a *Adapter) BankType() gateway.BankType { return gateway.BankTypeSEP }
func (a *Adapter) Currency() gateway.Currency { return gateway.CurrencyIRR }
func (a *Adapter) MinimumAmount() int64       { return minimumAmount }

func (a *Adapter) Configure(settings map[string]string) error {
	validated, err := bank.RequireSettings(a.BankType(), settings, "MERCHANT_ID", "SECRET_KEY")
	if err != nil {
		return err
	}
	a.merchantID = validated["MERCHANT_ID"]
	a.secretKey = validated["SECRET_KEY"]
	return nil
}

func (a *Adapter) PaymentURL() string                { return a.paymentURL }
func (a *Adapter) PaymentMethod() gateway.HTTPMethod { return gateway.MethodGet }

func (a *Adapter) PaymentParameters(rec *gateway.TransactionRecord) map[string]string {
	return map[string]string{"token": rec.ReferenceNumber}
}

// sepResponse is decoded loosely: the gateway answers "status" as a JSON
// number on some endpoints and as a string on others.
type sepResponse map[string]interface{}

func (r sepResponse) status() string { return cast.ToString(r["status"]) }
func (r sepResponse) token() string  { return cast.ToString(r["token"]) }

func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.secretKey}
}

// Pay performs the initiate call. A success status carries the session
// token used both as the bank reference and the payment page parameter.
func (a *Adapter) Pay(ctx context.Context, rec *gateway.TransactionRecord) error {
	request := map[string]string{
		"merchant":    a.merchantID,
		"amount":      strconv.FormatInt(rec.Amount, 10),
		"orderId":     rec.TrackingCode,
		"callbackUrl": rec.CallbackURL,
	}
	var response sepResponse
	if err := a.client.PostJSON(ctx, a.serviceURL+"/initiate", a.authHeaders(), request, &response); err != nil {
		return err
	}
	if response.status() == bank.SuccessCode && response.token() != "" {
		rec.ReferenceNumber = response.token()
		return nil
	}
	statusText := statusTable.Translate(response.status())
	rec.StatusText = statusText
	log.Printf("sep: initiate rejected for tracking code %s: %s", rec.TrackingCode, statusText)
	return &gateway.BankGatewayRejectPaymentError{Bank: a.BankType(), Code: response.status(), Reason: statusText}
}

func (a *Adapter) HandleCallback(rec *gateway.TransactionRecord, payload map[string]string) bool {
	token := bank.CallbackValue(payload, callbackReferenceKey, "")
	if token == "" {
		return false
	}
	rec.ReferenceNumber = token
	rec.SaleReferenceID = bank.CallbackValue(payload, "SaleReferenceId", "1")
	if err := rec.SetExtraInformation(payload); err != nil {
		log.Printf("sep: could not serialize callback payload for tracking code %s: %v", rec.TrackingCode, err)
	}
	return true
}

func (a *Adapter) referenceRequest(rec *gateway.TransactionRecord) map[string]string {
	return map[string]string{
		"merchant": a.merchantID,
		"token":    rec.ReferenceNumber,
		"orderId":  rec.TrackingCode,
	}
}

func (a *Adapter) call(ctx context.Context, path string, rec *gateway.TransactionRecord) (string, error) {
	var response sepResponse
	if err := a.client.PostJSON(ctx, a.serviceURL+path, a.authHeaders(), a.referenceRequest(rec), &response); err != nil {
		return "", err
	}
	return response.status(), nil
}

// Verify runs the verify chain: /verify, /inquiry as the fallback, then a
// best-effort /reverse when both report failure.
func (a *Adapter) Verify(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	verifyStatus, err := a.call(ctx, "/verify", rec)
	if err != nil {
		return rec.Status, err
	}
	if verifyStatus == bank.SuccessCode {
		return a.Settle(ctx, rec)
	}

	inquiryStatus, err := a.call(ctx, "/inquiry", rec)
	if err != nil {
		return rec.Status, err
	}
	if inquiryStatus == bank.SuccessCode {
		return a.Settle(ctx, rec)
	}

	log.Printf("sep: %v for tracking code %s (verify %q, inquiry %q), making reversal request",
		gateway.ErrVerificationInconclusive, rec.TrackingCode,
		statusTable.Translate(verifyStatus), statusTable.Translate(inquiryStatus))
	a.Reverse(ctx, rec)
	return gateway.StatusCancelByUser, nil
}

func (a *Adapter) Settle(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
	settleStatus, err := a.call(ctx, "/settle", rec)
	if err != nil {
		return rec.Status, err
	}
	if settleStatus == bank.SuccessCode {
		return gateway.StatusComplete, nil
	}
	statusText := statusTable.Translate(settleStatus)
	rec.StatusText = statusText
	log.Printf("sep: gateway did not settle the payment for tracking code %s: %s", rec.TrackingCode, statusText)
	return gateway.StatusSettleFailed, fmt.Errorf("%w: %s", gateway.ErrSettlementFailed, statusText)
}

func (a *Adapter) Reverse(ctx context.Context, rec *gateway.TransactionRecord) {
	reversalStatus, err := a.call(ctx, "/reverse", rec)
	if err != nil {
		log.Printf("sep: reversal request failed for tracking code %s: %v", rec.TrackingCode, err)
		return
	}
	if reversalStatus != bank.SuccessCode {
		log.Printf("sep: reversal request was not successful for tracking code %s: %s",
			rec.TrackingCode, statusTable.Translate(reversalStatus))
	}
}
