package reprice

import (
	"time"

	"reprice-tool/pkg/obs"
)

type ManagerBuilder struct {
	manager Manager
}

func NewManagerBuilder() *ManagerBuilder {
	return &ManagerBuilder{
		manager: Manager{
			logger:  noopLogger{},
			timeout: 30 * time.Second,
		},
	}
}

func (b *ManagerBuilder) WithFlightSource(src PriceSource) *ManagerBuilder {
	b.manager.flight = src
	return b
}

func (b *ManagerBuilder) WithHotelSource(src PriceSource) *ManagerBuilder {
	b.manager.hotel = src
	return b
}

func (b *ManagerBuilder) WithCriteriaProvider(p CriteriaProvider) *ManagerBuilder {
	b.manager.criteria = p
	return b
}

func (b *ManagerBuilder) WithDecisionProvider(p DecisionProvider) *ManagerBuilder {
	b.manager.decisions = p
	return b
}

func (b *ManagerBuilder) WithBaselineProvider(p BaselineProvider) *ManagerBuilder {
	b.manager.baseline = p
	return b
}

func (b *ManagerBuilder) WithHistory(store RunStore) *ManagerBuilder {
	b.manager.history = store
	return b
}

func (b *ManagerBuilder) WithMetrics(m *obs.Metrics) *ManagerBuilder {
	b.manager.metrics = m
	return b
}

func (b *ManagerBuilder) WithLogger(logger Logger) *ManagerBuilder {
	b.manager.logger = logger
	return b
}

func (b *ManagerBuilder) WithTimeout(timeout time.Duration) *ManagerBuilder {
	b.manager.timeout = timeout
	return b
}

func (b *ManagerBuilder) Build() (*Manager, error) {
	if b.manager.flight == nil {
		return nil, &ConfigError{msg: "flight price source is required"}
	}
	if b.manager.hotel == nil {
		return nil, &ConfigError{msg: "hotel price source is required"}
	}
	if b.manager.criteria == nil {
		return nil, &ConfigError{msg: "criteria provider is required"}
	}
	if b.manager.decisions == nil {
		return nil, &ConfigError{msg: "decision provider is required"}
	}
	if b.manager.timeout <= 0 {
		return nil, &ConfigError{msg: "timeout must be positive"}
	}
	m := b.manager
	return &m, nil
}

type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return e.msg
}
