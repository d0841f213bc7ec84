package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vitrine-storefront/internal/checkout"
	"vitrine-storefront/internal/storage"
)

// Deps are the collaborators the storefront surface is built from.
type Deps struct {
	Catalog CatalogLoader
	Orders  checkout.OrderAPI
	Handoff checkout.Handoff
	Slot    storage.Slot
	Options checkout.Options

	// Ready pings the storage backend, nil when the backend has no
	// connectivity to check (memory).
	Ready readyCheck
}

type readyCheck func(ctx context.Context) error

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
}

// New builds a Server with the storefront routes.
func New(addr string, logger *logrus.Logger, deps Deps) *Server {
	reg := newRegistry(deps.Catalog, deps.Orders, deps.Handoff, deps.Slot, deps.Options, logger)
	router := buildRouter(logger, reg, deps.Ready)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(ready readyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "storage not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
