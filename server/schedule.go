package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/existflow/issuegantt/internal/model"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

type dataResponse struct {
	Data []schedule.Item `json:"data"`
}

type additionalDataResponse struct {
	Milestones []model.Milestone   `json:"milestones"`
	Labels     []schedule.LabelRef `json:"labels"`
}

// sortKey reads an optional ?sort= override
func (s *Server) sortKey(c echo.Context) (schedule.SortKey, error) {
	if v := c.QueryParam("sort"); v != "" {
		return schedule.ParseSortKey(v)
	}
	return s.sortBy, nil
}

// handleData returns the current chart data
func (s *Server) handleData(c echo.Context) error {
	key, err := s.sortKey(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	items, err := s.projector.Project(c.Request().Context(), key)
	if err != nil {
		return s.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// handleAdditionalData returns milestones and the label legend
func (s *Server) handleAdditionalData(c echo.Context) error {
	ctx := c.Request().Context()

	milestones, err := s.milestones.ListMilestones(ctx)
	if err != nil {
		return s.errorJSON(c, err)
	}
	if milestones == nil {
		milestones = []model.Milestone{}
	}

	items, err := s.projector.Project(ctx, s.sortBy)
	if err != nil {
		return s.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, additionalDataResponse{
		Milestones: milestones,
		Labels:     schedule.Labels(items),
	})
}

// handleIssueURL returns the issue's web URL as plain text
func (s *Server) handleIssueURL(c echo.Context) error {
	id, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.String(http.StatusBadRequest, "invalid id")
	}

	url, err := s.syncer.IssueURL(c.Request().Context(), id)
	if errors.Is(err, sync.ErrTaskNotFound) {
		return c.String(http.StatusNotFound, "task not found")
	}
	if err != nil {
		return s.errorJSON(c, err)
	}
	return c.String(http.StatusOK, url)
}
