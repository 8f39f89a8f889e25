// Package plan loads declarative YAML operation plans and executes their
// steps sequentially through the action engine.
package plan
