// Package monitor validates inbound payment requests against a JSON
// schema before they reach the lifecycle controller.
package monitor

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// paymentRequestSchema is the contract of the create-payment endpoint.
// Amount bounds are re-checked per bank by the lifecycle controller; the
// schema only rejects requests that are malformed regardless of bank.
const paymentRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["bank", "amount", "callbackUrl"],
  "properties": {
    "bank": {"type": "string", "minLength": 1},
    "amount": {"type": "integer", "minimum": 1},
    "callbackUrl": {"type": "string", "minLength": 1},
    "mobileNumber": {"type": "string"}
  },
  "additionalProperties": false
}`

// ContractMonitor validates request bodies against the payment schema.
type ContractMonitor struct {
	schema *gojsonschema.Schema
}

// NewContractMonitor compiles the embedded payment request schema.
func NewContractMonitor() (*ContractMonitor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(paymentRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("error compiling payment request schema: %w", err)
	}
	return &ContractMonitor{schema: schema}, nil
}

// Validate checks the given request body against the schema. It returns
// true if valid, or false and the validation errors if invalid.
func (cm *ContractMonitor) Validate(requestBody []byte) (bool, []string, error) {
	result, err := cm.schema.Validate(gojsonschema.NewBytesLoader(requestBody))
	if err != nil {
		return false, nil, fmt.Errorf("error during validation: %w", err)
	}
	if result.Valid() {
		return true, nil, nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return false, errs, nil
}

// FormatErrors joins validation errors into a single message.
func FormatErrors(validationErrors []string) string {
	if len(validationErrors) == 0 {
		return ""
	}
	return "Validation errors: " + strings.Join(validationErrors, "; ")
}
