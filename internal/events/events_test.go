package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/asamblea-eventos/backend/internal/models"
)

var eventCols = []string{
	"id_evento", "nombre_evento", "estado_evento", "fecha_evento", "hora_evento",
	"lugar_evento", "publicado", "link_publico", "created_at", "updated_at",
}

func eventRow(rows *pgxmock.Rows, id int64, active, published bool, link *string) *pgxmock.Rows {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return rows.AddRow(id, "Asamblea General", active, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "09:30",
		"Salón Central", published, link, now, now)
}

type PublicEventSuite struct {
	suite.Suite
	mock   pgxmock.PgxPoolIface
	mr     *miniredis.Miniredis
	router *gin.Engine
}

func TestPublicEventSuite(t *testing.T) {
	suite.Run(t, new(PublicEventSuite))
}

func (s *PublicEventSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mock, err := pgxmock.NewPool()
	s.Require().NoError(err)
	s.mock = mock
	s.mr = miniredis.RunT(s.T())

	rdb := redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	h := NewHandler(NewRepository(mock), NewRedisCache(rdb, time.Minute),
		func(tok string) string { return "https://eventos.example.org/registro/" + tok }, nil, false)

	s.router = gin.New()
	s.router.GET("/public/evento/:link", h.GetPublic)
	s.router.POST("/eventos/:id/publicar", h.Publish)
}

func (s *PublicEventSuite) TearDownTest() {
	s.mock.Close()
}

func (s *PublicEventSuite) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (s *PublicEventSuite) TestPublishedEventIsServedAndCached() {
	link := "abc123"
	s.mock.ExpectQuery("SELECT (.+) FROM evento WHERE link_publico").
		WithArgs(link).
		WillReturnRows(eventRow(s.mock.NewRows(eventCols), 3, true, true, &link))

	rec := s.get("/public/evento/abc123")
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Data models.PublicEvent `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("Asamblea General", body.Data.Name)
	s.Equal("09:30", body.Data.Time)
	s.True(s.mr.Exists(cacheKeyPrefix + link))

	// served from Redis: no further database expectation
	rec = s.get("/public/evento/abc123")
	s.Equal(http.StatusOK, rec.Code)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PublicEventSuite) TestUnpublishedOrInactiveEventIsNotFound() {
	link := "closed"
	s.mock.ExpectQuery("SELECT (.+) FROM evento WHERE link_publico").
		WithArgs(link).
		WillReturnRows(eventRow(s.mock.NewRows(eventCols), 4, true, false, &link))
	s.Equal(http.StatusNotFound, s.get("/public/evento/closed").Code)

	s.mock.ExpectQuery("SELECT (.+) FROM evento WHERE link_publico").
		WithArgs(link).
		WillReturnRows(eventRow(s.mock.NewRows(eventCols), 4, false, true, &link))
	s.Equal(http.StatusNotFound, s.get("/public/evento/closed").Code)

	s.False(s.mr.Exists(cacheKeyPrefix + link))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PublicEventSuite) TestUnknownLinkIsNotFound() {
	s.mock.ExpectQuery("SELECT (.+) FROM evento WHERE link_publico").
		WithArgs("nope").
		WillReturnRows(s.mock.NewRows(eventCols))
	s.Equal(http.StatusNotFound, s.get("/public/evento/nope").Code)
}

func (s *PublicEventSuite) TestPublishKeepsExistingLinkAndInvalidatesCache() {
	link := "stable"
	s.mr.Set(cacheKeyPrefix+link, `{"id_evento":5}`)

	s.mock.ExpectQuery("UPDATE evento").
		WithArgs(int64(5), pgxmock.AnyArg()).
		WillReturnRows(eventRow(s.mock.NewRows(eventCols), 5, true, true, &link))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/eventos/5/publicar", nil))
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Data EventResponse `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().NotNil(body.Data.LinkToken)
	s.Equal(link, *body.Data.LinkToken)
	s.Equal("https://eventos.example.org/registro/stable", body.Data.PublicURL)
	s.False(s.mr.Exists(cacheKeyPrefix + link))
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("08:05:00")
	require.NoError(t, err)
	assert.Equal(t, "08:05", got)

	_, err = ParseClock("8am")
	assert.Error(t, err)
}

func TestNewLinkTokenIsOpaqueAndUnique(t *testing.T) {
	a, b := NewLinkToken(), NewLinkToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	name := "x"
	assert.False(t, Patch{Name: &name}.Empty())
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "t")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "t", models.PublicEvent{ID: 1, Name: "Foro"}))
	ev, hit, err := c.Get(ctx, "t")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "Foro", ev.Name)

	require.NoError(t, c.Invalidate(ctx, "t"))
	assert.False(t, mr.Exists(cacheKeyPrefix+"t"))
}
