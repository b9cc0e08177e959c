// Package gate serves the one-shot local redirect that holds the browser
// until a freshly launched session's hostname becomes resolvable.
package gate

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/denhq/den/internal/logging"
)

const (
	// DefaultTimeout bounds how long a request waits for the hostname.
	DefaultTimeout = 20 * time.Second

	// DefaultInterval is the delay between resolution attempts.
	DefaultInterval = 500 * time.Millisecond
)

// Gate answers a single browser request: it polls until Hostname resolves,
// then redirects to the session's web terminal.
type Gate struct {
	Hostname string
	Port     int

	// Resolve checks whether the hostname is resolvable. Defaults to a
	// DNS lookup via the system resolver.
	Resolve func(ctx context.Context, host string) error

	Timeout  time.Duration
	Interval time.Duration
}

// New creates a Gate with default resolution and timing.
func New(hostname string, port int) *Gate {
	return &Gate{
		Hostname: hostname,
		Port:     port,
		Resolve:  resolveHost,
		Timeout:  DefaultTimeout,
		Interval: DefaultInterval,
	}
}

func resolveHost(ctx context.Context, host string) error {
	_, err := net.DefaultResolver.LookupHost(ctx, host)
	return err
}

// ServeHTTP blocks until the hostname resolves, then answers 302 to the
// session URL. It answers 504 with a diagnostic page when the timeout
// elapses first.
func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if g.Hostname == "" {
		http.Error(w, "no target hostname", http.StatusInternalServerError)
		return
	}

	target := fmt.Sprintf("http://%s:%d/", g.Hostname, g.Port)
	deadline := time.Now().Add(g.Timeout)

	for {
		attemptCtx, cancel := context.WithTimeout(r.Context(), g.Interval)
		err := g.Resolve(attemptCtx, g.Hostname)
		cancel()

		if err == nil {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		if time.Now().After(deadline) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusGatewayTimeout)
			fmt.Fprintf(w, "<html><body><h1>Timeout</h1><p>Could not resolve %s after %s</p></body></html>",
				html.EscapeString(g.Hostname), g.Timeout)
			return
		}

		select {
		case <-time.After(g.Interval):
		case <-r.Context().Done():
			return
		}
	}
}

// Start listens on an ephemeral localhost port, serves a single request in
// the background, then shuts down. It returns the local URL to open.
func (g *Gate) Start() (string, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", fmt.Errorf("gate listen failed: %w", err)
	}

	var once sync.Once
	srv := &http.Server{}
	srv.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served := false
		once.Do(func() {
			served = true
			g.ServeHTTP(w, r)
			go srv.Close()
		})
		if !served {
			http.NotFound(w, r)
		}
	})
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Debug("gate server stopped", "error", err)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return fmt.Sprintf("http://localhost:%d/", addr.Port), nil
}
