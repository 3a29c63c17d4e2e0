package columnio

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arraykit/parquetbridge/pkg/util"
)

type Metrics struct {
	registerer prometheus.Registerer

	pageReadsTotal         *prometheus.CounterVec
	valuesTransferredTotal *prometheus.CounterVec
	rowGroupsWrittenTotal  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		registerer: reg,

		pageReadsTotal: util.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parquetbridge_page_reads_total",
			Help: "Total number of pages read while transferring columns",
		}, []string{"column"})),
		valuesTransferredTotal: util.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parquetbridge_values_transferred_total",
			Help: "Total number of values moved between parquet files and flat buffers",
		}, []string{"direction"})),
		rowGroupsWrittenTotal: util.RegisterOrGet(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parquetbridge_row_groups_written_total",
			Help: "Total number of row groups written",
		})),
	}
}

func (m *Metrics) Unregister() {
	if m.registerer == nil {
		return
	}
	m.registerer.Unregister(m.pageReadsTotal)
	m.registerer.Unregister(m.valuesTransferredTotal)
	m.registerer.Unregister(m.rowGroupsWrittenTotal)
}
