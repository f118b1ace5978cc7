// Package server exposes the sync and chat pipeline over HTTP.
//
// Three routes: POST /sync-user-data replaces a tenant's indexed data,
// POST /chat answers a dialogue turn, and GET /health reports liveness.
// Payload field names follow the wire contract of existing clients, so
// request records use camelCase keys (paymentMethod, budgetAmount) while
// envelope fields use snake_case (user_id, vectors_stored).
//
// Errors return a JSON body with a single detail field. Input problems
// map to 400, everything else to 500.
package server
