// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package reload

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/assetgrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultDialTimeout bounds how long Dial waits for the connection.
const DefaultDialTimeout = 15 * time.Second

// Client is a socket.io connection to a running dev server.
type Client struct {
	io *socket.Socket
}

// Dial connects to the dev server at rawURL (e.g. http://localhost:3000).
func Dial(ctx context.Context, rawURL string) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid dev server URL %q: scheme and host are required", rawURL)
	}

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to dev server.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(DefaultDialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", DefaultDialTimeout)
	}
}

// OnNotification calls fn for every reload or css event pushed by the server.
func (c *Client) OnNotification(fn func(Kind)) {
	c.io.On(types.EventName(EventReload), func(...any) { fn(Full) })
	c.io.On(types.EventName(EventCSS), func(...any) { fn(CSS) })
}

// Request asks the server to reload every connected browser and waits until
// the resulting broadcast reaches this client.
func (c *Client) Request(ctx context.Context) error {
	got := make(chan struct{}, 1)
	c.io.Once(types.EventName(EventReload), func(...any) {
		select {
		case got <- struct{}{}:
		default:
		}
	})

	c.io.Emit(EventReloadRequest)

	select {
	case <-got:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for reload broadcast: %w", ctx.Err())
	}
}

// Close disconnects from the server.
func (c *Client) Close() {
	c.io.Disconnect()
}
