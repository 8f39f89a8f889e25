// Package operations assembles the cobra commands that run branch lifecycle
// operations against GitLab: merge, release, move-tag, check-diffs, and
// check-tags.
package operations
