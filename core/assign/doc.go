package assign

// Package assign hosts the assignment orchestrator: free-text command
// parsing, reference resolution against the CRM directories, proposal
// building and the two-phase commit with its persistence fallback. The
// orchestrator is deliberately stateless between preview and confirm;
// each call re-resolves its inputs from a fresh snapshot.
