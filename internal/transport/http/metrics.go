package httptransport

import "expvar"

var (
	matchCreateTotal  = expvar.NewInt("match_create_total")
	matchCreateErrors = expvar.NewInt("match_create_errors_total")

	timeoutClaimTotal = expvar.NewInt("timeout_claim_total")

	eventSSEConnectionsTotal  = expvar.NewInt("event_sse_connections_total")
	eventSSEConnectionsActive = expvar.NewInt("event_sse_connections_active")
)
