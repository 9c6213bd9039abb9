package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_MappedCodes(t *testing.T) {
	table := New(map[string]string{
		"0":    "Successful",
		"-138": "Canceled By User",
		"51":   "No Sufficient Funds",
	})

	for code, want := range map[string]string{
		"0":    "Successful",
		"-138": "Canceled By User",
		"51":   "No Sufficient Funds",
	} {
		assert.Equal(t, want, table.Translate(code), "code %s", code)
	}
}

func TestTranslate_UnmappedCodeFallsBack(t *testing.T) {
	table := New(map[string]string{"0": "Successful"})

	assert.Equal(t, DefaultText, table.Translate("garbage"))
	assert.Equal(t, DefaultText, table.Translate(""))
	assert.Equal(t, DefaultText, table.Translate("99999"))
}

func TestTranslate_TotalOverDocumentedCodes(t *testing.T) {
	table := New(map[string]string{"0": "Successful", "-1": "Server Error"})

	for _, code := range table.Codes() {
		assert.NotEqual(t, DefaultText, table.Translate(code))
	}
}

func TestNew_CopiesEntries(t *testing.T) {
	entries := map[string]string{"0": "Successful"}
	table := New(entries)

	entries["0"] = "mutated"
	assert.Equal(t, "Successful", table.Translate("0"))
}
