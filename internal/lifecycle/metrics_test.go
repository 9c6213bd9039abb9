package lifecycle

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/bank-gateway/internal/bank/mock"
	"github.com/yourorg/bank-gateway/internal/gateway"
)

func histogramCount(t *testing.T, bank, phase string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, phaseDuration.WithLabelValues(bank, phase).(prometheus.Histogram).Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestObservePhase(t *testing.T) {
	countBefore := testutil.ToFloat64(phaseTotal.WithLabelValues("testbank", "pay", outcomeSuccess))
	samplesBefore := histogramCount(t, "testbank", "pay")

	observePhase("testbank", "pay", outcomeSuccess, 0.25)
	observePhase("testbank", "pay", outcomeSuccess, 0.5)

	countAfter := testutil.ToFloat64(phaseTotal.WithLabelValues("testbank", "pay", outcomeSuccess))
	assert.Equal(t, countBefore+2, countAfter)
	assert.Equal(t, samplesBefore+2, histogramCount(t, "testbank", "pay"))
}

func TestObservePhase_OutcomesAreSeparateSeries(t *testing.T) {
	failuresBefore := testutil.ToFloat64(phaseTotal.WithLabelValues("testbank", "verify", outcomeFailure))

	observePhase("testbank", "verify", outcomeSuccess, 0.1)

	failuresAfter := testutil.ToFloat64(phaseTotal.WithLabelValues("testbank", "verify", outcomeFailure))
	assert.Equal(t, failuresBefore, failuresAfter)
}

func TestSettleRetries_CountedPerRetry(t *testing.T) {
	adapter := mock.New()
	adapter.SettleFunc = func(ctx context.Context, rec *gateway.TransactionRecord) (gateway.PaymentStatus, error) {
		return gateway.StatusSettleFailed, fmt.Errorf("%w: Server Error", gateway.ErrSettlementFailed)
	}
	c, _ := newController(t, adapter)
	rec := verifiedRecord(t, c)

	retriesBefore := testutil.ToFloat64(settleRetries)
	_, err := c.Verify(context.Background(), rec.TrackingCode)
	assert.ErrorIs(t, err, gateway.ErrSettlementFailed)

	retriesAfter := testutil.ToFloat64(settleRetries)
	assert.Equal(t, retriesBefore+2, retriesAfter, "two retries beyond the in-chain settle attempt")
}
