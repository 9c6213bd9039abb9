// Package transport is the thin network boundary between bank adapters and
// the banks' service endpoints. It knows two wire shapes only: SOAP-style
// operation calls returning a single result string, and JSON POSTs. Every
// call is bounded by a fixed timeout; a timeout surfaces as
// gateway.ErrGatewayTimeout, never as a hang.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// DefaultTimeout bounds both connection setup and the whole operation.
const DefaultTimeout = 5 * time.Second

// Client wraps an *http.Client with the gateway timeout policy.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a Client with the default 5 second timeout.
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout creates a Client with a custom timeout. Used by tests.
func NewWithTimeout(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: timeout}).DialContext,
			},
		},
		timeout: timeout,
	}
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	XMLNS   string   `xml:"xmlns:soap,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Payload interface{}
}

type soapOperation struct {
	XMLName xml.Name
	Params  []soapParam
}

type soapParam struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func (b soapBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Payload); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// CallSOAP invokes a single SOAP operation and returns the text of the
// operation's result element. The banks in scope all answer with one flat
// result string ("0" or "status,token"), so anything richer is left to the
// adapter to interpret.
func (c *Client) CallSOAP(ctx context.Context, endpoint, operation string, params map[string]string) (string, error) {
	op := soapOperation{XMLName: xml.Name{Local: operation}}
	for k, v := range params {
		op.Params = append(op.Params, soapParam{XMLName: xml.Name{Local: k}, Value: v})
	}
	envelope := soapEnvelope{
		XMLNS: "http://schemas.xmlsoap.org/soap/envelope/",
		Body:  soapBody{Payload: op},
	}

	body, err := xml.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("transport: marshal soap envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("transport: build soap request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", operation)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", wrapNetError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wrapNetError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transport: soap call %s returned http %d", operation, resp.StatusCode)
	}

	return extractResult(raw, operation)
}

// extractResult pulls the chardata of the <operationResult> element out of
// the response envelope. A response without that element is an error; the
// banks in scope always wrap their reject codes in the result element.
func extractResult(raw []byte, operation string) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	wanted := operation + "Result"
	var inResult bool
	var result string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("transport: parse soap response: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == wanted {
				inResult = true
			}
		case xml.EndElement:
			if t.Name.Local == wanted {
				return result, nil
			}
		case xml.CharData:
			if inResult {
				result += string(t)
			}
		}
	}
	return "", fmt.Errorf("transport: soap response missing %s element", wanted)
}

// PostJSON posts in as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("transport: marshal json request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("transport: build json request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapNetError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapNetError(err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("transport: json call failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("transport: decode json response: %w", err)
	}
	return nil
}

// wrapNetError maps deadline and timeout failures onto the distinct
// GatewayTimeout error; everything else passes through wrapped.
func wrapNetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", gateway.ErrGatewayTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", gateway.ErrGatewayTimeout, err)
	}
	return fmt.Errorf("transport: %w", err)
}
