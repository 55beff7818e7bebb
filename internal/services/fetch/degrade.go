package fetch

import (
	"github.com/amaumene/mediagate/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Degrader collapses catalog errors into safe fallback values.
// Inner operations return (T, error) so the error kind stays visible to
// tests and logs; the outer wrappers call OrEmpty/OrNil.
type Degrader struct {
	logger        *logrus.Logger
	metrics       *metrics.Metrics
	quietNotFound bool
}

// NewDegrader creates a Degrader that logs every collapsed error
func NewDegrader(logger *logrus.Logger, m *metrics.Metrics) *Degrader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Degrader{logger: logger, metrics: m}
}

// QuietNotFound returns a copy that does not log NotFoundError
func (d *Degrader) QuietNotFound() *Degrader {
	cp := *d
	cp.quietNotFound = true
	return &cp
}

// Report logs and counts err for operation op
func (d *Degrader) Report(op string, err error) {
	kind := KindOf(err)
	d.metrics.Degraded(op, string(kind))

	if kind == KindNotFound && d.quietNotFound {
		return
	}
	d.logger.WithFields(logrus.Fields{
		"operation": op,
		"kind":      kind,
	}).WithError(err).Warn("Catalog operation degraded")
}

// OrEmpty returns items, or an empty non-nil slice when err is set
func OrEmpty[T any](d *Degrader, op string, items []T, err error) []T {
	if err != nil {
		d.Report(op, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// OrNil returns v, or nil when err is set
func OrNil[T any](d *Degrader, op string, v *T, err error) *T {
	if err != nil {
		d.Report(op, err)
		return nil
	}
	return v
}
