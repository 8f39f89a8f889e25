// Package results wraps executor outcomes into uniform operation envelopes
// with timing metadata and keeps an in-memory history of them.
package results
