package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(SignUps.WithLabelValues(OutcomeOK))
	SignUps.WithLabelValues(OutcomeOK).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SignUps.WithLabelValues(OutcomeOK)))

	before = testutil.ToFloat64(Purchases.WithLabelValues("moby-dick"))
	Purchases.WithLabelValues("moby-dick").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Purchases.WithLabelValues("moby-dick")))
}
