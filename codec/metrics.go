package codec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opDecode = "decode"
	opEncode = "encode"

	resultOK    = "ok"
	resultError = "error"
)

var (
	documentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "iterctl",
		Subsystem: "codec",
		Name:      "documents_total",
		Help:      "The total number of documents decoded or encoded",
	}, []string{"op", "format", "compression", "result"})

	documentBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: "iterctl",
		Subsystem: "codec",
		Name:      "document_bytes",
		Help:      "Size of documents in bytes, before compression",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 8), //nolint:mnd
	}, []string{"op", "format"})
)

func observe(op string, opts Options, size int, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}

	documentsTotal.WithLabelValues(op, string(opts.Format), string(opts.Compression), result).Inc()

	if err == nil {
		documentBytes.WithLabelValues(op, string(opts.Format)).Observe(float64(size))
	}
}
