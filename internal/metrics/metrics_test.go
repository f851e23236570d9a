package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordQuery(t *testing.T) {
	before := testutil.ToFloat64(queriesTotal.WithLabelValues("level_set", OutcomeFound))
	RecordQuery("level_set", OutcomeFound, time.Millisecond)
	after := testutil.ToFloat64(queriesTotal.WithLabelValues("level_set", OutcomeFound))
	assert.Equal(t, before+1, after)
}

func TestRecordGraphLoad(t *testing.T) {
	RecordGraphLoad(12, 4, time.Second, nil)
	assert.Equal(t, float64(12), testutil.ToFloat64(graphActors))
	assert.Equal(t, float64(4), testutil.ToFloat64(graphFilms))

	failures := testutil.ToFloat64(graphReloads.WithLabelValues("error"))
	RecordGraphLoad(0, 0, 0, errors.New("boom"))
	assert.Equal(t, failures+1, testutil.ToFloat64(graphReloads.WithLabelValues("error")))
	assert.Equal(t, float64(12), testutil.ToFloat64(graphActors), "failed load keeps previous size")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "3xx", statusClass(304))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
