package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/schedule"
	"github.com/existflow/issuegantt/internal/sync"
)

// updateRequest is the chart's edit payload. Numbers may arrive as JSON
// numbers or as strings.
type updateRequest struct {
	ID        json.RawMessage `json:"id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Duration  json.RawMessage `json:"duration"`
	Progress  json.RawMessage `json:"progress"`
}

// handleRefresh reconciles the store with the remote, then returns the
// chart data
func (s *Server) handleRefresh(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := s.syncer.Refresh(ctx)
	if err != nil {
		return s.errorJSON(c, err)
	}
	s.log.Info("Refreshed via HTTP",
		logger.F("run", res.RunID),
		logger.F("issues", res.Issues),
		logger.F("pruned", res.Pruned))

	items, err := s.projector.Project(ctx, s.sortBy)
	if err != nil {
		return s.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, dataResponse{Data: items})
}

// handleUpdateIssue writes an edited schedule back to the issue
func (s *Server) handleUpdateIssue(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	edit, err := req.toEdit()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if _, err := s.syncer.Edit(c.Request().Context(), edit); err != nil {
		return s.errorJSON(c, err)
	}
	return c.String(http.StatusOK, "Success")
}

func (r updateRequest) toEdit() (sync.Edit, error) {
	var e sync.Edit

	id, ok, err := rawNumber(r.ID)
	if err != nil || !ok || id != math.Trunc(id) {
		return e, fmt.Errorf("%w: bad id", sync.ErrInvalidEdit)
	}
	e.ID = int64(id)

	if e.StartDate, err = parseEditDate(r.StartDate); err != nil {
		return e, fmt.Errorf("%w: start_date: %w", sync.ErrInvalidEdit, err)
	}
	if e.EndDate, err = parseEditDate(r.EndDate); err != nil {
		return e, fmt.Errorf("%w: end_date: %w", sync.ErrInvalidEdit, err)
	}

	d, ok, err := rawNumber(r.Duration)
	if err != nil {
		return e, fmt.Errorf("%w: duration: %w", sync.ErrInvalidEdit, err)
	}
	if ok {
		e.Duration = int(math.Round(d))
	}

	p, ok, err := rawNumber(r.Progress)
	if err != nil {
		return e, fmt.Errorf("%w: progress: %w", sync.ErrInvalidEdit, err)
	}
	if ok {
		e.Progress = &p
	}

	return e, e.Validate()
}

// parseEditDate accepts the chart's mm-dd-yyyy form and every keyword date
// form
func parseEditDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing")
	}
	if t, err := time.Parse(schedule.DateLayout, s); err == nil {
		return t, nil
	}
	if t, ok := keyword.ParseDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// rawNumber decodes a JSON number or numeric string. ok is false for an
// absent or null value.
func rawNumber(raw json.RawMessage) (float64, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true, nil
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false, fmt.Errorf("not a number: %s", raw)
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("not a number: %q", str)
	}
	return v, true, nil
}
