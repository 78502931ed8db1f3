// Package domain defines the core business entities of the task board:
// projects, tasks, the ordered stage (column) configuration with optional
// WIP limits, and the transient task drafts produced by the generation
// output parser.
package domain
