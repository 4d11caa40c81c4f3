// Package devserver serves the build output during development and pushes
// live-reload events to connected browsers over socket.io.
package devserver
