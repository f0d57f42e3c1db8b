// Package flowstore persists payment flow snapshots so an in-flight flow can
// be resumed after a restart.
//
// A Snapshot records the flow ID, the current state tag, the active wait
// token (if the flow is subscribed to a payment status stream), and the error
// message for errored flows. Two Store implementations are provided:
// MemoryStore for tests and single-process setups, and RedisStore for
// deployments where flows must survive a process restart.
//
// Snapshots are deleted once the flow reaches a terminal outcome; only
// in-flight flows are worth resuming.
package flowstore
