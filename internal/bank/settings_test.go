package bank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

func TestRequireSettings_AllPresent(t *testing.T) {
	settings := map[string]string{"TERMINAL_CODE": "t", "USERNAME": "u", "PASSWORD": "p"}

	validated, err := RequireSettings(gateway.BankTypePEC, settings, "TERMINAL_CODE", "USERNAME", "PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, settings, validated)
}

func TestRequireSettings_MissingKey(t *testing.T) {
	settings := map[string]string{"TERMINAL_CODE": "t"}

	_, err := RequireSettings(gateway.BankTypePEC, settings, "TERMINAL_CODE", "USERNAME")
	require.Error(t, err)

	var missing *gateway.SettingDoesNotExistError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "USERNAME", missing.Key)
	assert.Equal(t, gateway.BankTypePEC, missing.Bank)
}

func TestRequireSettings_ReturnsCopy(t *testing.T) {
	settings := map[string]string{"MERCHANT_ID": "m"}

	validated, err := RequireSettings(gateway.BankTypeSEP, settings, "MERCHANT_ID")
	require.NoError(t, err)

	settings["MERCHANT_ID"] = "mutated"
	assert.Equal(t, "m", validated["MERCHANT_ID"])
}

func TestCallbackValue(t *testing.T) {
	payload := map[string]string{"RefId": "TOKEN123", "empty": ""}

	assert.Equal(t, "TOKEN123", CallbackValue(payload, "RefId", "fallback"))
	assert.Equal(t, "fallback", CallbackValue(payload, "missing", "fallback"))
	assert.Equal(t, "fallback", CallbackValue(payload, "empty", "fallback"))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Get(gateway.BankTypePEC)
	assert.Error(t, err)
	assert.Empty(t, reg.Banks())
}
