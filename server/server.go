// Package server exposes the schedule and the edit path over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/model"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

// Syncer refreshes the store and applies edits
type Syncer interface {
	Refresh(ctx context.Context) (*sync.Result, error)
	Edit(ctx context.Context, e sync.Edit) (model.Task, error)
	IssueURL(ctx context.Context, id int64) (string, error)
}

// Projector builds the chart data
type Projector interface {
	Project(ctx context.Context, key schedule.SortKey) ([]schedule.Item, error)
}

// MilestoneStore lists stored milestones
type MilestoneStore interface {
	ListMilestones(ctx context.Context) ([]model.Milestone, error)
}

// Options wires the server's collaborators
type Options struct {
	Syncer     Syncer
	Projector  Projector
	Milestones MilestoneStore
	SortBy     schedule.SortKey
}

// Server is the schedule HTTP server
type Server struct {
	syncer     Syncer
	projector  Projector
	milestones MilestoneStore
	sortBy     schedule.SortKey
	log        *logger.Logger
	echo       *echo.Echo
}

// New creates a new server
func New(opts Options) *Server {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = schedule.SortByLabel
	}

	s := &Server{
		syncer:     opts.Syncer,
		projector:  opts.Projector,
		milestones: opts.Milestones,
		sortBy:     sortBy,
		log:        logger.Named("http"),
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// Chart endpoints
	e.GET("/data", s.handleData)
	e.GET("/refreshData", s.handleRefresh)
	e.GET("/additionalData", s.handleAdditionalData)
	e.GET("/getIssueURL", s.handleIssueURL)
	e.POST("/updateIssue", s.handleUpdateIssue)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	s.log.Info("Server starting", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
