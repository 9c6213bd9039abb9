package bank

import (
	"github.com/yourorg/bank-gateway/internal/gateway"
)

// RequireSettings validates that every required key is present and returns
// an immutable copy of the settings. Adapters call this from Configure and
// capture the result by value: no field injection after construction.
func RequireSettings(bankType gateway.BankType, settings map[string]string, required ...string) (map[string]string, error) {
	for _, key := range required {
		if _, ok := settings[key]; !ok {
			return nil, &gateway.SettingDoesNotExistError{Bank: bankType, Key: key}
		}
	}
	copied := make(map[string]string, len(settings))
	for k, v := range settings {
		copied[k] = v
	}
	return copied, nil
}

// CallbackValue reads a callback payload value, with a fallback when the
// key is absent or empty.
func CallbackValue(payload map[string]string, key, fallback string) string {
	if v := payload[key]; v != "" {
		return v
	}
	return fallback
}
