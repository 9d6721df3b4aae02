package registrations

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(db *memDB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewService(db, nil), nil, false)
	r.POST("/public/registro/:link", h.Register)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerRegister(t *testing.T) {
	db := newMemDB()
	db.events["abc"] = openEvent(7, "abc")
	r := newRouter(db)

	body := `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":"1234567890123",
		"telefono":55551234,"id_cooperativa":5,"id_comision":2,"id_puesto":1}`

	w := post(r, "/public/registro/abc", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			NewPerson bool   `json:"nuevo_persona"`
			Kind      string `json:"tipo"`
			Event     string `json:"evento"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Contains(t, out.Message, "Asamblea General")
	assert.True(t, out.Data.NewPerson)
	assert.Equal(t, "interno", out.Data.Kind)
	for _, in := range db.inputs {
		require.NotNil(t, in.Phone)
		assert.Equal(t, "55551234", *in.Phone)
	}

	w = post(r, "/public/registro/abc", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestHandlerRegisterErrors(t *testing.T) {
	db := newMemDB()
	closed := openEvent(7, "abc")
	closed.Published = false
	db.events["abc"] = closed
	r := newRouter(db)

	ok := `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":1234567890123,"id_cooperativa":5,"id_comision":2,"id_puesto":1}`
	assert.Equal(t, http.StatusNotFound, post(r, "/public/registro/abc", ok).Code)
	assert.Equal(t, http.StatusNotFound, post(r, "/public/registro/nope", ok).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/public/registro/abc", `{"nombres":"Ana"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/public/registro/abc", `{"tipo_registro":"interno","nombres":"Ana","apellidos":"L","dpi":"12x"}`).Code)
}

func TestHandlerRegisterRejectsMalformedFields(t *testing.T) {
	db := newMemDB()
	db.events["abc"] = openEvent(7, "abc")
	r := newRouter(db)

	long := strings.Repeat("x", 51)
	cases := map[string]string{
		"bad email":        `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":1234567890123,"email":"not-an-email","id_cooperativa":5,"id_comision":2,"id_puesto":1}`,
		"long names":       `{"tipo_registro":"interno","nombres":"` + long + `","apellidos":"López","dpi":1234567890123,"id_cooperativa":5,"id_comision":2,"id_puesto":1}`,
		"long phone":       `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":1234567890123,"telefono":"123456789012345678901","id_cooperativa":5,"id_comision":2,"id_puesto":1}`,
		"long institution": `{"tipo_registro":"externo","nombres":"Ana","apellidos":"López","dpi":1234567890123,"institucion":"` + long + `","puesto":"Director"}`,
		"zero cooperative": `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":1234567890123,"id_cooperativa":0,"id_comision":2,"id_puesto":1}`,
	}
	for name, body := range cases {
		w := post(r, "/public/registro/abc", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.Empty(t, db.persons)
	assert.Empty(t, db.links)

	ok := `{"tipo_registro":"interno","nombres":"Ana","apellidos":"López","dpi":1234567890123,"email":"","id_cooperativa":5,"id_comision":2,"id_puesto":1}`
	assert.Equal(t, http.StatusCreated, post(r, "/public/registro/abc", ok).Code)
}
