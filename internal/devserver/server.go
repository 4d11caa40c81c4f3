// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/specialistvlad/assetgrid/internal/reload"
	"github.com/zishang520/socket.io/v2/socket"
)

// ShutdownTimeout bounds the graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Root is the directory served, usually the build output.
	Root string
	Host string
	Port int
}

// Server is the development HTTP server.
type Server struct {
	opts    Options
	channel *reload.Channel
	io      *socket.Server
	router  *gin.Engine

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server that broadcasts the notifications of channel.
func New(opts Options, channel *reload.Channel) *Server {
	s := &Server{
		opts:    opts,
		channel: channel,
		io:      socket.NewServer(nil, nil),
	}

	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		client.On(reload.EventReloadRequest, func(...any) {
			s.io.Emit(reload.EventReload)
		})
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	sio := gin.WrapH(s.io.ServeHandler(nil))
	router.Any("/socket.io/*any", sio)
	router.NoRoute(s.serveFile)

	s.router = router
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server listens on, or "" before Run.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Broadcast forwards reload notifications to every connected browser until
// ctx is cancelled or the channel is closed.
func (s *Server) Broadcast(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	sub, unsubscribe := s.channel.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub:
			if !ok {
				return
			}
			logger.Debug("Broadcasting reload.", "event", n.Kind.Event(), "rule", n.Rule)
			s.io.Emit(n.Kind.Event())
		}
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	broadcastCtx, stopBroadcast := context.WithCancel(ctx)
	defer stopBroadcast()
	go s.Broadcast(broadcastCtx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("🌐 Dev server started.", "address", "http://"+ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("dev server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("🌐 Shutting down dev server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	s.io.Close(nil)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Dev server shutdown failed.", "error", err)
		return err
	}
	logger.Debug("Dev server shut down gracefully.")
	return nil
}
