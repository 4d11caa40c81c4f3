// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package dag

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
)

// DefaultWorkers is the worker pool size used when none is configured.
const DefaultWorkers = 4

// Executor runs every task of a Graph once, honouring dependencies.
type Executor struct {
	graph      *Graph
	numWorkers int
}

// runNode is the per-run state of a graph node. The graph itself stays
// immutable so the same graph can be executed more than once.
type runNode struct {
	node *node
	// depCount is the number of dependencies that have not completed yet.
	depCount atomic.Int32
	// finishOnce guarantees the node is settled (and the WaitGroup released)
	// exactly once, whether it ran or was skipped.
	finishOnce sync.Once
	dependents []*runNode
}

// NewExecutor creates an executor for g with the given worker pool size.
func NewExecutor(g *Graph, workers int) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Executor{graph: g, numWorkers: workers}
}

// Run executes the entire graph concurrently. The error is reserved for a
// graph that cannot be executed; task failures and cancellation are recorded
// in the returned Report and surfaced by Report.Err.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	if err := e.graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	e.graph.mutex.RLock()
	nodes := make(map[string]*runNode, len(e.graph.nodes))
	for id, n := range e.graph.nodes {
		rn := &runNode{node: n}
		rn.depCount.Store(int32(len(n.deps)))
		nodes[id] = rn
	}
	for id, rn := range nodes {
		for _, depID := range sortedKeys(e.graph.nodes[id].dependents) {
			rn.dependents = append(rn.dependents, nodes[depID])
		}
	}
	e.graph.mutex.RUnlock()

	report := newReport(sortedKeys(e.graph.nodes))
	if len(nodes) == 0 {
		logger.Warn("No tasks found in graph, execution not required.")
		return report, nil
	}

	var wg sync.WaitGroup
	wg.Add(len(nodes))

	readyChan := make(chan *runNode, len(nodes))
	rootNodeCount := 0
	for _, id := range sortedKeys(e.graph.nodes) {
		if nodes[id].depCount.Load() == 0 {
			logger.Debug("Found root node.", "nodeID", id)
			readyChan <- nodes[id]
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(ctx, readyChan, report, &wg, i)
	}

	wg.Wait()
	close(readyChan)
	logger.Debug("All nodes settled.")

	return report, nil
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *runNode, report *Report, wg *sync.WaitGroup, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for rn := range readyChan {
		id := rn.node.id
		workerLogger := logger.With("workerID", workerID, "nodeID", id)

		if ctx.Err() != nil {
			rn.finishOnce.Do(func() {
				workerLogger.Warn("Context canceled, skipping node execution.")
				report.cancel(ctx.Err())
				report.settle(id, Skipped, nil, ctx.Err())
				wg.Done()
			})
			e.skipDependents(ctx, rn, report, wg)
			continue
		}

		workerLogger.Debug("Worker picked up node for execution.")
		report.start(id)
		res, err := rn.node.task.Execute(ctx)

		if err != nil {
			workerLogger.Error("Node execution failed.", "error", err)
			rn.finishOnce.Do(func() {
				report.settle(id, Failed, nil, err)
				wg.Done()
			})
			e.skipDependents(ctx, rn, report, wg)
			continue
		}

		workerLogger.Debug("Node execution succeeded.")
		rn.finishOnce.Do(func() {
			report.settle(id, Done, res, nil)
		})

		for _, dependent := range rn.dependents {
			if dependent.depCount.Add(-1) == 0 {
				workerLogger.Debug("Unlocking dependent node.", "dependentID", dependent.node.id)
				readyChan <- dependent
			}
		}

		wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// skipDependents recursively marks all downstream nodes as skipped and
// releases their WaitGroup slots. Independent branches are left untouched.
func (e *Executor) skipDependents(ctx context.Context, rn *runNode, report *Report, wg *sync.WaitGroup) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range rn.dependents {
		skipped := false
		dependent.finishOnce.Do(func() {
			logger.Warn("Skipping dependent node due to upstream failure.", "nodeID", dependent.node.id, "dependency", rn.node.id)
			report.settle(dependent.node.id, Skipped, nil, fmt.Errorf("skipped due to upstream failure of '%s'", rn.node.id))
			wg.Done()
			skipped = true
		})
		if skipped {
			e.skipDependents(ctx, dependent, report, wg)
		}
	}
}
