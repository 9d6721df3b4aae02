package registrations

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asamblea-eventos/backend/internal/people"
	"github.com/asamblea-eventos/backend/pkg/apperr"
)

func expectOpenEvent(mock pgxmock.PgxPoolIface, token string) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM evento WHERE link_publico").
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows([]string{
			"id_evento", "nombre_evento", "estado_evento", "fecha_evento", "hora_evento",
			"lugar_evento", "publicado", "link_publico", "created_at", "updated_at",
		}).AddRow(int64(7), "Asamblea General", true, now, "09:30", "Salón Central", true, &token, now, now))
}

func TestPostgresTxDuplicateRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	expectOpenEvent(mock, "abc")
	mock.ExpectQuery("SELECT id_persona FROM persona").
		WithArgs(int64(1234567890123)).
		WillReturnRows(pgxmock.NewRows([]string{"id_persona"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE persona").
		WithArgs(int64(3), "Ana", "López", (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("SELECT id_interno FROM registro_internos").
		WithArgs(int64(3), int64(5), int64(2), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id_interno"}).AddRow(int64(11)))
	mock.ExpectRollback()

	svc := NewService(NewPostgresTx(mock), nil)
	_, err = svc.Register(context.Background(), internalReq("abc", 5, 2, 1))
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicate))
	assert.Equal(t, "already registered with this cooperative/commission/position", apperr.MessageOf(err, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTxExternalRegistrationCommits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	expectOpenEvent(mock, "abc")
	mock.ExpectQuery("SELECT id_persona FROM persona").
		WithArgs(int64(3000000000001)).
		WillReturnRows(pgxmock.NewRows([]string{"id_persona"}))
	mock.ExpectQuery("INSERT INTO persona").
		WithArgs("Luis", "Pérez", (*string)(nil), int64(3000000000001), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id_persona"}).AddRow(int64(9)))
	mock.ExpectQuery("SELECT id_externo FROM registro_externo").
		WithArgs(int64(9), "INAB", "Director").
		WillReturnRows(pgxmock.NewRows([]string{"id_externo"}))
	mock.ExpectQuery("INSERT INTO registro_externo").
		WithArgs(int64(9), "INAB", "Director").
		WillReturnRows(pgxmock.NewRows([]string{"id_externo"}).AddRow(int64(4)))
	mock.ExpectQuery("SELECT id_registro_evento FROM registro_evento").
		WithArgs(int64(7), int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id_registro_evento"}))
	mock.ExpectQuery("INSERT INTO registro_evento").
		WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id_registro_evento"}).AddRow(int64(21)))
	mock.ExpectCommit()

	institution, position := " INAB ", "Director"
	svc := NewService(NewPostgresTx(mock), nil)
	res, err := svc.Register(context.Background(), Request{
		LinkToken:   "abc",
		Kind:        "externo",
		Person:      people.Input{NationalID: 3000000000001, GivenNames: "Luis", Surnames: "Pérez"},
		Institution: &institution,
		Position:    &position,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), res.RegistrationID)
	assert.True(t, res.NewPerson)
	require.NoError(t, mock.ExpectationsWereMet())
}
