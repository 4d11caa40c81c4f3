// Package watcher routes filesystem changes under the source root to the
// build tasks that consume them.
//
// The routing is an explicit table of Rules, compiled and validated when the
// Watcher is created. A change matching a rule is debounced, then the rule's
// tasks run one after another and a single reload notification is published.
// A change arriving while the rule is already running queues exactly one more
// run; rules never preempt each other or themselves.
package watcher
