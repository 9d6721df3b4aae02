package people

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// Handler serves back-office person lookups.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
	debug  bool
}

// NewHandler creates a people handler.
func NewHandler(repo *Repository, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger, debug: debug}
}

// GetByDPI handles GET /personas/dpi/:dpi.
func (h *Handler) GetByDPI(c *gin.Context) {
	dpi, err := strconv.ParseInt(c.Param("dpi"), 10, 64)
	if err != nil || dpi <= 0 {
		response.BadRequest(c, "invalid dpi")
		return
	}
	p, err := h.repo.GetByNationalID(c.Request.Context(), models.NationalID(dpi))
	if err != nil {
		h.logger.Debug("person lookup failed", zap.Error(err))
		response.Error(c, err, h.debug)
		return
	}
	response.OK(c, p)
}
