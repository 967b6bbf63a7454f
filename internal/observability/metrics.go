package observability

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "binfmt"

var (
	registerOnce sync.Once

	codecCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "calls_total",
			Help:      "Total codec calls.",
		},
		[]string{"op", "format", "result"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes consumed by decode or produced by encode.",
		},
		[]string{"op", "format"},
	)
	codecErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "errors_total",
			Help:      "Failed codec calls by error kind.",
		},
		[]string{"op", "format", "kind"},
	)
	codecDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Codec call duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"op", "format"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecCalls, codecBytes, codecErrors, codecDuration)
	})
}

// RecordCodec counts one codec call. Byte counts are only added on success.
func RecordCodec(op codec.Op, format string, n int, duration time.Duration, err error) {
	RegisterMetrics()
	opLabel := string(op)
	result := "ok"
	if err != nil {
		result = "error"
		codecErrors.WithLabelValues(opLabel, format, ErrorKind(err)).Inc()
	} else {
		codecBytes.WithLabelValues(opLabel, format).Add(float64(n))
	}
	codecCalls.WithLabelValues(opLabel, format, result).Inc()
	codecDuration.WithLabelValues(opLabel, format).Observe(duration.Seconds())
}

// CodecObserver feeds codec calls into the process metrics.
type CodecObserver struct{}

func (CodecObserver) ObserveCodec(op codec.Op, format string, n int, elapsed time.Duration, err error) {
	RecordCodec(op, format, n, elapsed, err)
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{codec.ErrOutOfRange, "out_of_range"},
	{codec.ErrMissingSize, "missing_size"},
	{codec.ErrSizeMismatch, "size_mismatch"},
	{codec.ErrInvalidSize, "invalid_size"},
	{codec.ErrUnsupportedKind, "unsupported_kind"},
	{codec.ErrUnsupportedPrefix, "unsupported_prefix"},
	{codec.ErrMissingField, "missing_field"},
	{codec.ErrValueType, "value_type"},
	{codec.ErrValueRange, "value_range"},
	{codec.ErrLengthOverflow, "length_overflow"},
	{codec.ErrCharset, "charset"},
	{codec.ErrNilFormat, "nil_format"},
}

// ErrorKind maps a codec error to a low-cardinality label value.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "other"
}

// WriteText writes the binfmt metric families from the default registry in
// the Prometheus text format.
func WriteText(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
