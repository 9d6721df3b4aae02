package catalog

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/pkg/response"
)

// Handler serves catalog lists for the registration form and back office.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
	debug  bool
}

// NewHandler creates a catalog handler.
func NewHandler(repo *Repository, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger, debug: debug}
}

// ActiveCooperatives handles GET /public/cooperativas.
func (h *Handler) ActiveCooperatives(c *gin.Context) {
	list, err := h.repo.ActiveCooperatives(c.Request.Context())
	if err != nil {
		h.logger.Error("list cooperatives failed", zap.Error(err))
		response.Error(c, err, h.debug)
		return
	}
	response.OK(c, list)
}

// Commissions handles GET /catalogos/comisiones.
func (h *Handler) Commissions(c *gin.Context) {
	list, err := h.repo.Commissions(c.Request.Context())
	if err != nil {
		h.logger.Error("list commissions failed", zap.Error(err))
		response.Error(c, err, h.debug)
		return
	}
	response.OK(c, list)
}

// Positions handles GET /catalogos/puestos.
func (h *Handler) Positions(c *gin.Context) {
	list, err := h.repo.Positions(c.Request.Context())
	if err != nil {
		h.logger.Error("list positions failed", zap.Error(err))
		response.Error(c, err, h.debug)
		return
	}
	response.OK(c, list)
}
