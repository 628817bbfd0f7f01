// Package tasks implements the task-assignment and status-lifecycle
// subsystem. An admin creates a task for a user; the task then moves among
// Pending, In Progress, and Completed through explicit status updates. The
// legal-transition table is defined server-side in this package rather than
// trusted to the caller.
package tasks
