package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/factlens/internal/pipeline"
)

type verifyRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Facts    int    `json:"facts"`
	Entities int    `json:"entities"`
	Sources  int    `json:"sources"`
}

// handleVerify handles POST /verify
func (s *Server) handleVerify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object with a text field"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	result, err := s.verifier.Verify(ctx, req.Text)
	if errors.Is(err, pipeline.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "text must not be empty"})
		return
	}
	if err != nil {
		s.logger.Error("verification failed", slog.String("request_id", c.GetString(requestIDKey)), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{Status: "ok"}
	if s.stats != nil {
		st := s.stats.Stats()
		resp.Facts, resp.Entities, resp.Sources = st.Facts, st.Entities, st.Sources
	}
	c.JSON(http.StatusOK, resp)
}
