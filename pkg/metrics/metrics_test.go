package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()

	r.RecordRequest()
	r.RecordRequest()
	r.RecordMatch()
	r.RecordNotFound()
	r.RecordError()
	r.RecordWorkers(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requestsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.matchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notFoundTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.liveWorkers))

	r.RecordWorkers(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.liveWorkers))
}

func TestRecorderOwnRegistry(t *testing.T) {
	// Two recorders must not trip duplicate registration panics.
	a := NewRecorder()
	b := NewRecorder()
	a.RecordRequest()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.requestsTotal))
}

func TestCloseWithoutServe(t *testing.T) {
	r := NewRecorder()
	assert.NoError(t, r.Close())
}
