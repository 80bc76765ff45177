// Package fireworks provides workflows of dependent job units.
//
// A Firework is a single unit of work: an ordered list of tasks sharing a
// spec of parameters. A Workflow is a directed acyclic graph of fireworks
// where an edge means the parent must complete before the child may run.
// Workflows are declarative containers; a separate launcher walks the graph
// and executes the tasks.
//
// Tasks can act back on the workflow through the FWAction they return:
// pushing spec updates to children, defusing children, or appending freshly
// built fireworks as children of the one that just ran. This is how a
// fragmentation job grows the workflow with one optimization job per
// fragment it discovers.
package fireworks
