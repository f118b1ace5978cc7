// Package index provides the tenant-scoped vector index.
//
// The Index type owns the full lifecycle of indexed entries: chunks enter
// through Add, which embeds them and stores them under their tenant, and
// leave through DeleteTenant. Search answers similarity queries scoped to
// a single tenant; results from one tenant can never surface in another
// tenant's search.
//
// Error handling is asymmetric on purpose. Add reports failures to the
// caller because a partial sync must be visible. Search and DeleteTenant
// absorb failures: a query against a failing backend returns an empty
// result, logged, so a degraded index degrades answers instead of
// breaking conversations.
//
// Embedding requests run in batches on an ants worker pool. Writes and
// searches are serialized through a readers-writer lock, so a search
// never observes a half-written sync.
package index
