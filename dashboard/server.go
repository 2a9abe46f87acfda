package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/HariniKartheeswaran/queuectl/job"
	"github.com/HariniKartheeswaran/queuectl/store"
)

// Store is the read-only slice of the queue store the dashboard needs.
type Store interface {
	List(ctx context.Context, opts job.ListOpts) ([]*job.Job, error)
	Stats(ctx context.Context) (store.Stats, error)
	ConfigAll(ctx context.Context) (map[string]string, error)
}

// Server is the read-only dashboard over one queue store.
type Server struct {
	store  Store
	logger *slog.Logger
	engine *gin.Engine
}

type listJobsQuery struct {
	State string `form:"state"`
	Limit int    `form:"limit"`
}

// New builds the dashboard server and its routes.
func New(store Store, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(template.Must(template.New("index").Parse(indexHTML)))

	s := &Server{store: store, logger: logger, engine: engine}

	engine.GET("/", s.index)
	api := engine.Group("/api")
	api.GET("/stats", s.stats)
	api.GET("/jobs", s.listJobs)
	api.GET("/config", s.configAll)

	return s
}

// Handler returns the assembled http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// with a short drain window.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.logger.Info("dashboard listening", slog.String("addr", addr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) stats(c *gin.Context) {
	st, err := s.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) listJobs(c *gin.Context) {
	var q listJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := job.ListOpts{Limit: q.Limit}
	if q.State != "" {
		state := job.State(q.State)
		if !state.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown state %q", q.State)})
			return
		}
		opts.State = state
	}

	jobs, err := s.store.List(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *Server) configAll(c *gin.Context) {
	cfg, err := s.store.ConfigAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) index(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := s.store.Stats(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "stats: %v", err)
		return
	}
	recent, err := s.store.List(ctx, job.ListOpts{Limit: 25})
	if err != nil {
		c.String(http.StatusInternalServerError, "jobs: %v", err)
		return
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Stats":  st,
		"States": job.States(),
		"Jobs":   recent,
		"Now":    time.Now().UTC().Format(time.RFC1123),
	})
}
