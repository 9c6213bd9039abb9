package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

func soapResponse(operation, result string) string {
	return fmt.Sprintf(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <%sResponse>
      <%sResult>%s</%sResult>
    </%sResponse>
  </soap:Body>
</soap:Envelope>`, operation, operation, result, operation, operation)
}

func TestCallSOAP_ExtractsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SalePayment", r.Header.Get("SOAPAction"))
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<SalePayment>")
		assert.Contains(t, string(body), "<Amount>25000</Amount>")

		fmt.Fprint(w, soapResponse("SalePayment", "0,TOKEN123"))
	}))
	defer srv.Close()

	client := New()
	result, err := client.CallSOAP(context.Background(), srv.URL, "SalePayment", map[string]string{"Amount": "25000"})
	require.NoError(t, err)
	assert.Equal(t, "0,TOKEN123", result)
}

func TestCallSOAP_MissingResultElement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body/></soap:Envelope>`)
	}))
	defer srv.Close()

	client := New()
	_, err := client.CallSOAP(context.Background(), srv.URL, "bpVerifyRequest", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing bpVerifyRequestResult")
}

func TestCallSOAP_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New()
	_, err := client.CallSOAP(context.Background(), srv.URL, "SalePayment", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
}

func TestCallSOAP_TimeoutIsGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, soapResponse("SalePayment", "0"))
	}))
	defer srv.Close()

	client := NewWithTimeout(20 * time.Millisecond)
	_, err := client.CallSOAP(context.Background(), srv.URL, "SalePayment", nil)
	assert.ErrorIs(t, err, gateway.ErrGatewayTimeout)
}

func TestCallSOAP_ContextDeadlineIsGatewayTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, soapResponse("SalePayment", "0"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New()
	_, err := client.CallSOAP(ctx, srv.URL, "SalePayment", nil)
	assert.ErrorIs(t, err, gateway.ErrGatewayTimeout)
}

func TestPostJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"status":"0","token":"abc"}`)
	}))
	defer srv.Close()

	client := New()
	var out map[string]interface{}
	err := client.PostJSON(context.Background(), srv.URL,
		map[string]string{"Authorization": "Bearer secret"},
		map[string]string{"merchant": "m-1"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "0", out["status"])
	assert.Equal(t, "abc", out["token"])
}

func TestPostJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"status":"-1"}`)
	}))
	defer srv.Close()

	client := New()
	err := client.PostJSON(context.Background(), srv.URL, nil, map[string]string{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http=502")
}
