package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/anime-curator/internal/domain/curator"
	apperrors "github.com/yanqian/anime-curator/pkg/errors"
)

// Handler wires the HTTP transport to the curator domain.
type Handler struct {
	curatorSvc curator.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(curatorSvc curator.Service, logger *slog.Logger) *Handler {
	return &Handler{
		curatorSvc: curatorSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Chat handles the recommendation chat endpoint. Degraded results still
// respond 200; only validation failures and unexpected faults map to error
// statuses.
func (h *Handler) Chat(c *gin.Context) {
	var req curator.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "validation", err.Error(), err))
		return
	}

	resp, err := h.curatorSvc.Chat(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsCode(err, "validation") {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "validation", apperrors.Message(err), err))
			return
		}
		h.logger.Error("chat request failed", "error", err)
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "unknown", "Unexpected error", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
