// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package dag is the execution layer of the application. It holds the build
// tasks in a Directed Acyclic Graph and executes them concurrently according
// to their dependencies.
//
// Two composition operators are provided on top of raw edges: Series, which
// chains tasks so each waits for the previous one, and After, which makes a
// group of parallel siblings wait for a common set of predecessors.
//
// A failing task halts its own branch only. Every transitive dependent is
// marked Skipped while independent branches keep running, and the executor
// returns a Report describing what happened to every task.
package dag
