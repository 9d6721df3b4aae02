package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/response"
	"github.com/asamblea-eventos/backend/pkg/storage"
)

// Archiver stores rendered reports and hands out download links.
type Archiver interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) error
	PresignedDownloadURL(ctx context.Context, key, filename string) (string, error)
	DeleteObject(ctx context.Context, key string) error
	PresignExpire() time.Duration
}

// ArchiveResponse is returned by the archive endpoint.
type ArchiveResponse struct {
	Key       string    `json:"key"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Attendees int       `json:"total_asistentes"`
}

// Handler serves report downloads.
type Handler struct {
	gen     *Generator
	archive Archiver
	logger  *zap.Logger
	debug   bool
}

// NewHandler creates a reports handler. archive may be nil when no bucket is configured.
func NewHandler(gen *Generator, archive Archiver, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{gen: gen, archive: archive, logger: logger, debug: debug}
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if apperr.CodeOf(err) == apperr.CodeInternal {
		h.logger.Error(msg, zap.Error(err))
	}
	response.Error(c, err, h.debug)
}

func eventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("eventId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return 0, false
	}
	return id, true
}

func (h *Handler) download(c *gin.Context, f Format) {
	id, ok := eventID(c)
	if !ok {
		return
	}
	rep, err := h.gen.Generate(c.Request.Context(), id, f)
	if err != nil {
		h.fail(c, err, "generate report failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rep.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, rep.ContentType, rep.Body)
}

// Excel handles GET /reportes/asistencia/:eventId/excel.
func (h *Handler) Excel(c *gin.Context) { h.download(c, FormatExcel) }

// PDF handles GET /reportes/asistencia/:eventId/pdf.
func (h *Handler) PDF(c *gin.Context) { h.download(c, FormatPDF) }

// Archive handles POST /reportes/asistencia/:eventId/:format/archivar. The
// report is stored in the reports bucket and a presigned link is returned.
func (h *Handler) Archive(c *gin.Context) {
	if h.archive == nil {
		response.ServiceUnavailable(c, "report storage is not configured")
		return
	}
	id, ok := eventID(c)
	if !ok {
		return
	}
	f, err := ParseFormat(c.Param("format"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	rep, err := h.gen.Generate(ctx, id, f)
	if err != nil {
		h.fail(c, err, "generate report failed")
		return
	}

	now := time.Now()
	key := storage.ReportKey(id, rep.Filename, now)
	if err := h.archive.Upload(ctx, key, rep.ContentType, bytes.NewReader(rep.Body), int64(len(rep.Body))); err != nil {
		h.fail(c, apperr.Internal(err, "failed to archive report"), "archive report failed")
		return
	}
	url, err := h.archive.PresignedDownloadURL(ctx, key, rep.Filename)
	if err != nil {
		if derr := h.archive.DeleteObject(ctx, key); derr != nil {
			h.logger.Warn("cleanup of archived report failed", zap.String("key", key), zap.Error(derr))
		}
		h.fail(c, apperr.Internal(err, "failed to sign report link"), "presign report failed")
		return
	}
	response.Created(c, ArchiveResponse{
		Key:       key,
		Filename:  rep.Filename,
		URL:       url,
		ExpiresAt: now.Add(h.archive.PresignExpire()),
		Attendees: rep.Attendees,
	})
}
