package scheduling

// Package scheduling holds the pure decision logic for dispatch assignment:
// availability resolution against leave records and weekly templates,
// workload aggregation, greedy slot suggestion and technician ranking.
// Everything here operates on immutable snapshots passed in by the caller;
// there is no I/O and no shared state.
