package events

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/response"
)

const dateLayout = "2006-01-02"

// CreateRequest is the body for POST /eventos.
type CreateRequest struct {
	Name     string `json:"nombre_evento" binding:"required,max=100"`
	Active   *bool  `json:"estado_evento"`
	Date     string `json:"fecha_evento" binding:"required"`
	Time     string `json:"hora_evento" binding:"required"`
	Location string `json:"lugar_evento" binding:"required,max=100"`
}

// UpdateRequest is the body for PATCH /eventos/:id. Omitted fields are kept.
type UpdateRequest struct {
	Name     *string `json:"nombre_evento" binding:"omitempty,max=100"`
	Active   *bool   `json:"estado_evento"`
	Date     *string `json:"fecha_evento"`
	Time     *string `json:"hora_evento"`
	Location *string `json:"lugar_evento" binding:"omitempty,max=100"`
}

// EventResponse is an event plus its full public registration URL once published.
type EventResponse struct {
	models.Event
	PublicURL string `json:"url_publico,omitempty"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo      *Repository
	cache     Cache
	publicURL func(token string) string
	logger    *zap.Logger
	debug     bool
}

// NewHandler creates an event handler. cache may be nil.
func NewHandler(repo *Repository, cache Cache, publicURL func(string) string, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, cache: cache, publicURL: publicURL, logger: logger, debug: debug}
}

func (h *Handler) toResponse(e *models.Event) EventResponse {
	out := EventResponse{Event: *e}
	if e.LinkToken != nil && h.publicURL != nil {
		out.PublicURL = h.publicURL(*e.LinkToken)
	}
	return out
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.logger.Error(msg, zap.Error(err))
	}
	response.Error(c, err, h.debug)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return 0, false
	}
	return id, true
}

// ParseClock normalizes "15:04" or "15:04:05" to "15:04".
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", apperr.New(apperr.CodeInvalidInput, "hora_evento must be HH:MM")
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.New(apperr.CodeInvalidInput, "fecha_evento must be YYYY-MM-DD")
	}
	return t, nil
}

// Create handles POST /eventos.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, err, h.debug)
		return
	}
	clock, err := ParseClock(req.Time)
	if err != nil {
		response.Error(c, err, h.debug)
		return
	}
	e := &models.Event{
		Name:     strings.TrimSpace(req.Name),
		Active:   req.Active == nil || *req.Active,
		Date:     date,
		Time:     clock,
		Location: strings.TrimSpace(req.Location),
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.fail(c, err, "create event failed")
		return
	}
	response.Created(c, h.toResponse(e))
}

func (h *Handler) list(c *gin.Context, filter ListFilter) {
	list, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "list events failed")
		return
	}
	out := make([]EventResponse, 0, len(list))
	for i := range list {
		out = append(out, h.toResponse(&list[i]))
	}
	response.OK(c, out)
}

// List handles GET /eventos.
func (h *Handler) List(c *gin.Context) { h.list(c, ListAll) }

// ListActive handles GET /eventos/activos.
func (h *Handler) ListActive(c *gin.Context) { h.list(c, ListActive) }

// ListUpcoming handles GET /eventos/proximos.
func (h *Handler) ListUpcoming(c *gin.Context) { h.list(c, ListUpcoming) }

// GetByID handles GET /eventos/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get event failed")
		return
	}
	response.OK(c, h.toResponse(e))
}

// Update handles PATCH /eventos/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	patch := Patch{Name: req.Name, Active: req.Active, Location: req.Location}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			response.Error(c, err, h.debug)
			return
		}
		patch.Date = &d
	}
	if req.Time != nil {
		clock, err := ParseClock(*req.Time)
		if err != nil {
			response.Error(c, err, h.debug)
			return
		}
		patch.Time = &clock
	}

	var (
		e   *models.Event
		err error
	)
	if patch.Empty() {
		e, err = h.repo.GetByID(c.Request.Context(), id)
	} else {
		e, err = h.repo.Update(c.Request.Context(), id, patch)
	}
	if err != nil {
		h.fail(c, err, "update event failed")
		return
	}
	h.invalidate(c.Request.Context(), e)
	response.OKMessage(c, "event updated", h.toResponse(e))
}

// Publish handles POST /eventos/:id/publicar. The link token is generated on
// first publication and reused afterwards.
func (h *Handler) Publish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.repo.Publish(c.Request.Context(), id, NewLinkToken())
	if err != nil {
		h.fail(c, err, "publish event failed")
		return
	}
	h.invalidate(c.Request.Context(), e)
	response.OKMessage(c, "event published", h.toResponse(e))
}

// Unpublish handles POST /eventos/:id/despublicar.
func (h *Handler) Unpublish(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.repo.Unpublish(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "unpublish event failed")
		return
	}
	h.invalidate(c.Request.Context(), e)
	response.OKMessage(c, "event unpublished", h.toResponse(e))
}

// Delete handles DELETE /eventos/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "delete event failed")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "delete event failed")
		return
	}
	h.invalidate(c.Request.Context(), e)
	response.NoContent(c)
}

// GetPublic handles GET /public/evento/:link. Only published, active events are visible.
func (h *Handler) GetPublic(c *gin.Context) {
	token := c.Param("link")
	ctx := c.Request.Context()

	if h.cache != nil {
		ev, hit, err := h.cache.Get(ctx, token)
		if err != nil {
			h.logger.Warn("event cache read failed", zap.Error(err))
		} else if hit {
			response.OK(c, ev)
			return
		}
	}

	e, err := h.repo.GetByLinkToken(ctx, token)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			response.NotFound(c, "event not found or not open for registration")
			return
		}
		h.fail(c, err, "public event lookup failed")
		return
	}
	if !e.OpenForRegistration() {
		response.NotFound(c, "event not found or not open for registration")
		return
	}

	pub := e.Public()
	if h.cache != nil {
		if err := h.cache.Set(ctx, token, pub); err != nil {
			h.logger.Warn("event cache write failed", zap.Error(err))
		}
	}
	response.OK(c, pub)
}

func (h *Handler) invalidate(ctx context.Context, e *models.Event) {
	if h.cache == nil || e == nil || e.LinkToken == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, *e.LinkToken); err != nil {
		h.logger.Warn("event cache invalidation failed", zap.Error(err), zap.Int64("event_id", e.ID))
	}
}

// NewLinkToken returns an opaque, URL-safe public link token.
func NewLinkToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
