// Package awsinventory implements the resource listers: one per resource
// kind, each driving the relevant read-only AWS list/describe/get calls and
// mapping SDK responses into the snapshot types in internal/models.
//
// Listers never apply business logic or produce findings. Per-resource
// attribute probes degrade to the snapshot's documented zero-value default
// instead of failing the listing; a failure of the listing call itself
// returns the resources collected so far together with the error, so the
// scanner can keep partial results.
package awsinventory
