// Package reload carries live-reload notifications from the file watcher to
// the dev server, and provides the socket.io client used to ask a running
// dev server for a reload from the command line.
package reload
