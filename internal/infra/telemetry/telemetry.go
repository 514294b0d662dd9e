package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/WeAreCode045/wphub-pro-sub002/internal/usecase"
)

// AuthorizationMetrics counts authorization decisions by permission and outcome.
type AuthorizationMetrics struct {
	decisions *prometheus.CounterVec
}

// NewAuthorizationMetrics registers the decision counter with reg, reusing an
// already registered collector of the same shape.
func NewAuthorizationMetrics(reg prometheus.Registerer) (*AuthorizationMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wphub",
		Subsystem: "rbac",
		Name:      "authorization_decisions_total",
		Help:      "Authorization predicate evaluations partitioned by category, action, and outcome.",
	}, []string{"category", "action", "outcome"})

	if err := reg.Register(decisions); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register authorization decisions collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("existing authorization decisions collector has wrong type %T", already.ExistingCollector)
		}
		decisions = existing
	}

	return &AuthorizationMetrics{decisions: decisions}, nil
}

// RecordDecision implements usecase.DecisionRecorder.
func (m *AuthorizationMetrics) RecordDecision(category, action, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(category, action, outcome).Inc()
}

var _ usecase.DecisionRecorder = (*AuthorizationMetrics)(nil)
