package observability

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Decode outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeShortInput = "short_input"
)

var (
	registerOnce sync.Once

	packetsEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spwkit",
			Subsystem: "codec",
			Name:      "packets_encoded_total",
			Help:      "Packets compiled to wire bytes.",
		},
		[]string{"schema"},
	)
	bytesEncoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spwkit",
			Subsystem: "codec",
			Name:      "encoded_bytes_total",
			Help:      "Wire bytes produced by packet compilation.",
		},
		[]string{"schema"},
	)
	packetsDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spwkit",
			Subsystem: "codec",
			Name:      "packets_decoded_total",
			Help:      "Packets dismantled from wire bytes.",
		},
		[]string{"schema", "outcome"},
	)
	checksumChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spwkit",
			Subsystem: "codec",
			Name:      "checksum_checks_total",
			Help:      "Checksum verifications of dismantled packets.",
		},
		[]string{"schema", "scope", "ok"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsEncoded, bytesEncoded, packetsDecoded, checksumChecks)
	})
}

func RecordEncode(schema string, size int) {
	RegisterMetrics()
	packetsEncoded.WithLabelValues(schema).Inc()
	bytesEncoded.WithLabelValues(schema).Add(float64(size))
}

func RecordDecode(schema, outcome string) {
	RegisterMetrics()
	packetsDecoded.WithLabelValues(schema, outcome).Inc()
}

func RecordChecksum(schema, scope string, ok bool) {
	RegisterMetrics()
	checksumChecks.WithLabelValues(schema, scope, strconv.FormatBool(ok)).Inc()
}

// WriteTextfile dumps the default registry in the text exposition format,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
