// Package httpapi is the REST surface of the diary, served with gin next to
// the gRPC endpoint. It shares the services and error taxonomy with gRPC.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/dmitrijs2005/swapdiary/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Accounts is the account side used by the REST handlers.
type Accounts interface {
	Register(ctx context.Context, r services.Registration) (*diary.Profile, error)
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*diary.Profile, error)
	LinkPartner(ctx context.Context, userID, partnerID string) (*diary.Profile, error)
}

// Entries is the diary backend plus its gallery view.
type Entries interface {
	diary.Store
	ListForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.Entry, error)
	GalleryForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.GalleryItem, error)
}

type Server struct {
	address   string
	accounts  Accounts
	entries   Entries
	logger    logging.Logger
	jwtSecret []byte
	now       diary.Clock
	metrics   *metrics
	gatherer  prometheus.Gatherer
}

// NewServer builds the REST server. Metrics are registered on reg, which
// also backs the /metrics endpoint.
func NewServer(address string, l logging.Logger, a Accounts, e Entries, secretKey string, reg *prometheus.Registry) *Server {
	return &Server{
		address:   address,
		accounts:  a,
		entries:   e,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		now:       time.Now,
		metrics:   newMetrics(reg),
		gatherer:  reg,
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "OK"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.authMiddleware())
	authed.GET("/profile", s.profile)
	authed.POST("/profile/partner", s.linkPartner)
	authed.GET("/entries", s.listEntries)
	authed.POST("/entries", s.createEntry)
	authed.DELETE("/entries/:id", s.deleteEntry)
	authed.GET("/gallery", s.gallery)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
