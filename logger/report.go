package logger

import (
	"context"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

var (
	fetchesOK        int64
	fetchErrors      int64
	snapshotsWritten int64
	bytesWritten     int64
	warnCount        int64
	errorCount       int64
)

func recordWarn(component string) {
	atomic.AddInt64(&warnCount, 1)
}

func recordError(component string) {
	atomic.AddInt64(&errorCount, 1)
}

// IncrementFetch records the outcome of one API request.
func IncrementFetch(ok bool) {
	if ok {
		atomic.AddInt64(&fetchesOK, 1)
	} else {
		atomic.AddInt64(&fetchErrors, 1)
	}
}

// IncrementSnapshotWrite records one persisted snapshot of the given size.
func IncrementSnapshotWrite(size int) {
	atomic.AddInt64(&snapshotsWritten, 1)
	atomic.AddInt64(&bytesWritten, int64(size))
}

// ReportRun logs the accumulated counters for the finished collection run and
// publishes them to CloudWatch when the client is configured. Counters are
// reset afterwards so scheduled runs report per-run numbers.
func ReportRun(ctx context.Context, log *Log) {
	ok := atomic.SwapInt64(&fetchesOK, 0)
	failed := atomic.SwapInt64(&fetchErrors, 0)
	written := atomic.SwapInt64(&snapshotsWritten, 0)
	bytes := atomic.SwapInt64(&bytesWritten, 0)
	warns := atomic.SwapInt64(&warnCount, 0)
	errs := atomic.SwapInt64(&errorCount, 0)

	log.WithComponent("report").WithFields(Fields{
		"fetches_ok":        ok,
		"fetch_errors":      failed,
		"snapshots_written": written,
		"bytes_written":     bytes,
		"warnings":          warns,
		"errors":            errs,
	}).Info("collection run report")

	publishMetrics(ctx, []cwtypes.MetricDatum{
		{MetricName: aws.String("FetchesOK"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(ok))},
		{MetricName: aws.String("FetchErrors"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(failed))},
		{MetricName: aws.String("SnapshotsWritten"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(written))},
		{MetricName: aws.String("BytesWritten"), Unit: cwtypes.StandardUnitBytes, Value: aws.Float64(float64(bytes))},
	})
}
