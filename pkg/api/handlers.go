package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orcli-org/orcli/pkg/apperr"
	"github.com/orcli-org/orcli/pkg/types"
)

func (s *Server) handleListTools(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		grouped := s.registry.Categories()
		tools, ok := grouped[category]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown category " + category})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "tools": tools})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": s.registry.Count(), "tools": s.registry.List()})
}

func (s *Server) handleDescribeTool(c *gin.Context) {
	desc, err := s.registry.Describe(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, desc)
}

func (s *Server) handleInvokeTool(c *gin.Context) {
	var args types.Args
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	result := s.dispatcher.Invoke(c.Request.Context(), c.Param("name"), args)
	c.JSON(statusForResult(result), result)
}

// statusForResult maps a failure kind to the HTTP status the caller
// expects; successes are always 200.
func statusForResult(res *types.ToolResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.ErrorKind {
	case "unknown_tool", "not_found":
		return http.StatusNotFound
	case "missing_parameter":
		return http.StatusBadRequest
	case "invocation_denied":
		return http.StatusForbidden
	case "timeout":
		return http.StatusGatewayTimeout
	case "external_service_error":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListHistory(c *gin.Context) {
	records := s.files.History().Records()
	c.JSON(http.StatusOK, gin.H{"count": len(records), "operations": records})
}

func (s *Server) handleUndo(c *gin.Context) {
	res, err := s.files.UndoLast()
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyHistory) {
			c.JSON(http.StatusConflict, gin.H{"error": "no operations to undo"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleClearHistory(c *gin.Context) {
	cleared := s.files.History().Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

func (s *Server) handleListBackups(c *gin.Context) {
	backups, err := s.backups().List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(backups), "backups": backups})
}

func (s *Server) handlePruneBackups(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = parsed
	}

	removed, err := s.backups().Prune(time.Now().AddDate(0, 0, -days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "older_than_days": days})
}
