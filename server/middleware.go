package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/existflow/issuegantt/internal/logger"
	"github.com/existflow/issuegantt/internal/sync"
)

// requestLogger logs every request and its outcome
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		s.log.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		s.log.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// errorJSON maps err onto a status code and writes it as {"error": ...}
func (s *Server) errorJSON(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, sync.ErrInvalidEdit), errors.Is(err, sync.ErrTaskNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, sync.ErrRemote):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", logger.F("uri", c.Request().RequestURI), logger.Err(err))
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
