// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package dag

import (
	"sync"

	"github.com/specialistvlad/assetgrid/internal/task"
)

// Graph is a collection of tasks and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their task name.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	// id is the unique identifier for the node, equal to its task name.
	id string
	// task is the unit of work executed for this node.
	task *task.Task
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

// Status represents the execution state of a task within a single run.
type Status int32

const (
	// Pending indicates the task is waiting for its dependencies to complete.
	Pending Status = iota
	// Running indicates the task is currently being executed by a worker.
	Running
	// Done indicates the task has completed successfully.
	Done
	// Failed indicates the task's action returned an error.
	Failed
	// Skipped indicates the task never ran because an upstream task failed
	// or the run was cancelled.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}
