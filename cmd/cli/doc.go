// Package cli constructs the branchops command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging, and the
// GitLab resource client shared by the operation commands.
package cli
