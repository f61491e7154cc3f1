// Package store persists baseline traceability maps, recommendations, and
// workflow runs in PostgreSQL.
//
// The Store interface abstracts the operations the workflows and the API
// server need; GormStore is the database-backed implementation. Baseline map
// saves replace all child rows inside a single transaction, so readers never
// observe a half-written map.
package store
