package metrics

// Package metrics defines interfaces and implementations for collecting
// assignment metrics. Sinks record orchestrator decisions (previews,
// commits, fallbacks) and can be combined with NewMultiSink. The factory
// helpers return a MultiSink automatically when multiple sinks are
// configured; concrete sinks live in infra/metrics and register themselves
// by name.
