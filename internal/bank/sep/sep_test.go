package sep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/bank-gateway/internal/gateway"
	"github.com/yourorg/bank-gateway/internal/transport"
)

// fakeBank answers JSON endpoints with canned bodies and counts calls.
type fakeBank struct {
	mu        sync.Mutex
	responses map[string]string
	calls     map[string]int
	requests  map[string]map[string]string
}

func newFakeBank(responses map[string]string) *fakeBank {
	return &fakeBank{
		responses: responses,
		calls:     map[string]int{},
		requests:  map[string]map[string]string{},
	}
}

func (f *fakeBank) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))

		var request map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.requests[r.URL.Path] = request
		body, ok := f.responses[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func (f *fakeBank) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func newTestAdapter(t *testing.T, bank *fakeBank) *Adapter {
	t.Helper()
	srv := httptest.NewServer(bank.handler(t))
	t.Cleanup(srv.Close)

	a := New(transport.NewWithTimeout(2 * time.Second))
	a.serviceURL = srv.URL
	require.NoError(t, a.Configure(map[string]string{
		"MERCHANT_ID": "m-1",
		"SECRET_KEY":  "secret-key",
	}))
	return a
}

func newRecord() *gateway.TransactionRecord {
	return &gateway.TransactionRecord{
		TrackingCode: "trk-200",
		Bank:         gateway.BankTypeSEP,
		Amount:       5000,
		Currency:     gateway.CurrencyIRR,
		Status:       gateway.StatusPending,
		CallbackURL:  "https://shop.example/callback",
	}
}

func TestConfigure_MissingSetting(t *testing.T) {
	a := New(nil)
	err := a.Configure(map[string]string{"MERCHANT_ID": "m-1"})

	var missing *gateway.SettingDoesNotExistError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "SECRET_KEY", missing.Key)
}

func TestPay_Success(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/initiate": `{"status":"0","token":"SESSION-9"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()

	require.NoError(t, a.Pay(context.Background(), rec))
	assert.Equal(t, "SESSION-9", rec.ReferenceNumber)
	assert.Equal(t, map[string]string{"token": "SESSION-9"}, a.PaymentParameters(rec))
	assert.Equal(t, gateway.MethodGet, a.PaymentMethod())

	request := bank.requests["/initiate"]
	assert.Equal(t, "m-1", request["merchant"])
	assert.Equal(t, "5000", request["amount"])
	assert.Equal(t, "trk-200", request["orderId"])
}

func TestPay_NumericStatusTolerated(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/initiate": `{"status":0,"token":"SESSION-9"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()

	require.NoError(t, a.Pay(context.Background(), rec))
	assert.Equal(t, "SESSION-9", rec.ReferenceNumber)
}

func TestPay_Rejected(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/initiate": `{"status":-15}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()

	err := a.Pay(context.Background(), rec)
	var reject *gateway.BankGatewayRejectPaymentError
	require.ErrorAs(t, err, &reject)
	assert.Equal(t, "-15", reject.Code)
	assert.Equal(t, "Invalid Amount", reject.Reason)
	assert.Equal(t, "Invalid Amount", rec.StatusText)
}

func TestPay_SuccessWithoutTokenIsRejected(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/initiate": `{"status":"0"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()

	err := a.Pay(context.Background(), rec)
	var reject *gateway.BankGatewayRejectPaymentError
	require.ErrorAs(t, err, &reject)
	assert.Empty(t, rec.ReferenceNumber)
}

func TestHandleCallback(t *testing.T) {
	a := New(nil)

	rec := newRecord()
	assert.False(t, a.HandleCallback(rec, map[string]string{"State": "Failed"}))

	rec = newRecord()
	assert.True(t, a.HandleCallback(rec, map[string]string{"Token": "SESSION-9"}))
	assert.Equal(t, "SESSION-9", rec.ReferenceNumber)
	assert.Equal(t, "1", rec.SaleReferenceID)
}

func TestVerify_SuccessThenSettle(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/verify": `{"status":"0"}`,
		"/settle": `{"status":0}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()
	rec.Status = gateway.StatusCallbackReceived
	rec.ReferenceNumber = "SESSION-9"

	status, err := a.Verify(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, gateway.StatusComplete, status)
	assert.Equal(t, 0, bank.count("/inquiry"))
	assert.Equal(t, 0, bank.count("/reverse"))
}

func TestVerify_InquiryRecovers(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/verify":  `{"status":"-10"}`,
		"/inquiry": `{"status":"0"}`,
		"/settle":  `{"status":"0"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()
	rec.Status = gateway.StatusCallbackReceived
	rec.ReferenceNumber = "SESSION-9"

	status, err := a.Verify(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, gateway.StatusComplete, status)
	assert.Equal(t, 1, bank.count("/inquiry"))
}

func TestVerify_BothFailReverses(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/verify":  `{"status":"-17"}`,
		"/inquiry": `{"status":"-17"}`,
		"/reverse": `{"status":"0"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()
	rec.Status = gateway.StatusCallbackReceived
	rec.ReferenceNumber = "SESSION-9"

	status, err := a.Verify(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, gateway.StatusCancelByUser, status)
	assert.Equal(t, 1, bank.count("/reverse"))
	assert.Equal(t, 0, bank.count("/settle"))
}

func TestSettle_Failure(t *testing.T) {
	bank := newFakeBank(map[string]string{
		"/verify": `{"status":"0"}`,
		"/settle": `{"status":"-1"}`,
	})
	a := newTestAdapter(t, bank)
	rec := newRecord()
	rec.Status = gateway.StatusCallbackReceived
	rec.ReferenceNumber = "SESSION-9"

	status, err := a.Verify(context.Background(), rec)
	assert.ErrorIs(t, err, gateway.ErrSettlementFailed)
	assert.Equal(t, gateway.StatusSettleFailed, status)
}

func TestVerify_TransportErrorLeavesStatus(t *testing.T) {
	bank := newFakeBank(map[string]string{}) // every endpoint answers 500
	a := newTestAdapter(t, bank)
	rec := newRecord()
	rec.Status = gateway.StatusCallbackReceived
	rec.ReferenceNumber = "SESSION-9"

	status, err := a.Verify(context.Background(), rec)
	require.Error(t, err)
	assert.Equal(t, gateway.StatusCallbackReceived, status)
}
