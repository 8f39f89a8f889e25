// Package actions implements the branch lifecycle operation engine.
//
// It defines the closed set of action kinds (merge, release, move-tag,
// check-diffs, check-non-actual-tags), one executor per kind with its
// per-project control flow and failure classification, the dispatching
// Engine with its warm-up pacing, the cooperative CancellationToken, and the
// safe-result retry adapter used by the merge executor.
package actions
