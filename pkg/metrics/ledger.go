package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics tracks credit movements and activity log health.
type LedgerMetrics struct {
	debited       prometheus.Counter
	added         prometheus.Counter
	insufficient  prometheus.Counter
	purchases     *prometheus.CounterVec
	activityDrops *prometheus.CounterVec
}

func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	debited := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_credits_debited_total",
		Help: "Credits spent on generations.",
	})
	added := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_credits_added_total",
		Help: "Credits granted through purchases.",
	})
	insufficient := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_insufficient_credits_total",
		Help: "Debits rejected because the balance was too low.",
	})
	purchases := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_purchases_total",
		Help: "Completed credit purchases by package.",
	}, []string{"package"})
	activityDrops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_write_failures_total",
		Help: "Activity entries that could not be persisted.",
	}, []string{"action"})
	reg.MustRegister(debited, added, insufficient, purchases, activityDrops)
	return &LedgerMetrics{
		debited:       debited,
		added:         added,
		insufficient:  insufficient,
		purchases:     purchases,
		activityDrops: activityDrops,
	}
}

func (m *LedgerMetrics) Debited(amount int64) {
	if m == nil || m.debited == nil {
		return
	}
	m.debited.Add(float64(amount))
}

func (m *LedgerMetrics) Added(amount int64, pkg string) {
	if m == nil || m.added == nil {
		return
	}
	m.added.Add(float64(amount))
	m.purchases.WithLabelValues(normalizeLabel(pkg)).Inc()
}

func (m *LedgerMetrics) Insufficient() {
	if m == nil || m.insufficient == nil {
		return
	}
	m.insufficient.Inc()
}

func (m *LedgerMetrics) ActivityDropped(action string) {
	if m == nil || m.activityDrops == nil {
		return
	}
	m.activityDrops.WithLabelValues(normalizeLabel(action)).Inc()
}
