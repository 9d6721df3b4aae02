package attendance

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/auth"
	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// MarkRequest is the body for POST /asistencia/:id/marcar.
type MarkRequest struct {
	Status models.AttendanceStatus `json:"estado_asistencia" binding:"required"`
	Notes  *string                 `json:"notas"`
}

// BulkMarkRequest is the body for POST /asistencia/masiva.
type BulkMarkRequest struct {
	RegistrationIDs []int64                 `json:"registros" binding:"required"`
	Status          models.AttendanceStatus `json:"estado_asistencia" binding:"required"`
}

// Handler handles attendance endpoints. All routes need an authenticated user.
type Handler struct {
	svc    *Service
	logger *zap.Logger
	debug  bool
}

// NewHandler creates an attendance handler.
func NewHandler(svc *Service, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, debug: debug}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.logger.Error(msg, zap.Error(err))
	}
	response.Error(c, err, h.debug)
}

func paramID(c *gin.Context, name, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+what+" id")
		return 0, false
	}
	return id, true
}

func userID(c *gin.Context) (int64, bool) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return 0, false
	}
	return claims.UserID, true
}

// Mark handles POST /asistencia/:id/marcar.
func (h *Handler) Mark(c *gin.Context) {
	id, ok := paramID(c, "id", "registration")
	if !ok {
		return
	}
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	m, err := h.svc.MarkOne(c.Request.Context(), id, req.Status, uid, req.Notes)
	if err != nil {
		h.fail(c, err, "mark attendance failed")
		return
	}
	response.OKMessage(c, "Attendance marked as: "+string(m.NewStatus), m)
}

// MarkBulk handles POST /asistencia/masiva.
func (h *Handler) MarkBulk(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	n, err := h.svc.MarkMany(c.Request.Context(), req.RegistrationIDs, req.Status, uid)
	if err != nil {
		h.fail(c, err, "bulk mark attendance failed")
		return
	}
	response.OKMessage(c, fmt.Sprintf("%d registrations updated", n), gin.H{"total_actualizados": n})
}

// ForEvent handles GET /asistencia/evento/:eventId.
func (h *Handler) ForEvent(c *gin.Context) {
	id, ok := paramID(c, "eventId", "event")
	if !ok {
		return
	}
	out, err := h.svc.ForEvent(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "list attendance failed")
		return
	}
	response.OK(c, out)
}

// AuditTrail handles GET /asistencia/:id/bitacora.
func (h *Handler) AuditTrail(c *gin.Context) {
	id, ok := paramID(c, "id", "registration")
	if !ok {
		return
	}
	list, err := h.svc.AuditTrail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get attendance audit failed")
		return
	}
	response.OK(c, list)
}
