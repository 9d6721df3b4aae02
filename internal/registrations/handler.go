package registrations

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/internal/models"
	"github.com/asamblea-eventos/backend/internal/people"
	"github.com/asamblea-eventos/backend/pkg/apperr"
	"github.com/asamblea-eventos/backend/pkg/response"
)

// RegisterRequest is the body for POST /public/registro/:link.
type RegisterRequest struct {
	Kind       string            `json:"tipo_registro" binding:"required"`
	GivenNames string            `json:"nombres" binding:"required,max=50"`
	Surnames   string            `json:"apellidos" binding:"required,max=50"`
	NationalID models.NationalID `json:"dpi" binding:"required"`
	Email      string            `json:"email" binding:"omitempty,email,max=100"`
	Phone      *PhoneField       `json:"telefono" binding:"omitempty,max=20"`

	CooperativeID *int64 `json:"id_cooperativa" binding:"omitempty,gt=0"`
	CommissionID  *int64 `json:"id_comision" binding:"omitempty,gt=0"`
	PositionID    *int64 `json:"id_puesto" binding:"omitempty,gt=0"`

	Institution *string `json:"institucion" binding:"omitempty,max=50"`
	Position    *string `json:"puesto" binding:"omitempty,max=50"`
}

// PhoneField accepts a phone number sent either as a JSON string or number.
type PhoneField string

func (p *PhoneField) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = PhoneField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("telefono must be a string or number")
	}
	*p = PhoneField(n.String())
	return nil
}

func (r RegisterRequest) toRequest(link string) Request {
	in := people.Input{
		NationalID: r.NationalID,
		GivenNames: r.GivenNames,
		Surnames:   r.Surnames,
	}
	if r.Email != "" {
		in.Email = &r.Email
	}
	if r.Phone != nil {
		s := string(*r.Phone)
		in.Phone = &s
	}
	return Request{
		LinkToken:     link,
		Person:        in,
		Kind:          r.Kind,
		CooperativeID: r.CooperativeID,
		CommissionID:  r.CommissionID,
		PositionID:    r.PositionID,
		Institution:   r.Institution,
		Position:      r.Position,
	}
}

// Handler handles public registration endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
	debug  bool
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger, debug bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, debug: debug}
}

// Register handles POST /public/registro/:link.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.toRequest(c.Param("link")))
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInternal {
			h.logger.Error("registration failed", zap.Error(err), zap.String("link", c.Param("link")))
		}
		response.Error(c, err, h.debug)
		return
	}
	response.CreatedMessage(c, fmt.Sprintf("Registration successful! You are registered for %q", res.EventName), res)
}
