package postgres

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/zhandos-t/ridelink/pkg/metrics"
)

func TestRecordQuery_StatusLabel(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("rides", "get", "ok"))
	errBefore := testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("rides", "get", "error"))

	recordQuery("rides", "get", nil)
	recordQuery("rides", "get", errors.New("connection reset"))

	assert.Equal(t, okBefore+1,
		testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("rides", "get", "ok")))
	assert.Equal(t, errBefore+1,
		testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues("rides", "get", "error")))
}
