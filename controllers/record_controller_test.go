package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-ionicdose/models"
)

const testShareCode = "ABCDEFGH12345678"

func newRecordRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := NewRecordController(db, newCalc(t), zap.NewNop())
	c.NewShareCode = func() (string, error) { return testShareCode, nil }

	r := gin.New()
	withUser := func(ctx *gin.Context) {
		ctx.Set("userID", 7)
		ctx.Next()
	}
	r.POST("/dosage/records/save", withUser, c.SaveDoseRecord)
	r.GET("/dosage/records", withUser, c.GetDoseRecords)
	r.GET("/dosage/record", withUser, c.GetDoseRecord)
	r.GET("/admin/dosage/records", c.GetAllDoseRecords)
	r.GET("/dosage/share/:code", c.GetSharedRecord)
	return r, mock
}

var recordColumnNames = []string{"id", "user_id", "share_code", "volume", "unit", "application_id", "concentrate_mode",
	"dose_ml", "dose_drops", "summary", "note", "created_at"}

func TestSaveDoseRecord_RecomputesDose(t *testing.T) {
	r, mock := newRecordRouter(t)

	mock.ExpectExec("INSERT INTO dose_records").
		WithArgs(7, testShareCode, 2500.0, "L", "agriculture", "1:10", 10000.0, 200000.0,
			"2,500 L target for Agriculture needs 10,000 mL (200,000 drops) of 1:10 Ritual Solution.", "north field").
		WillReturnResult(sqlmock.NewResult(11, 1))

	body := `{"volume":"2500","unit":"L","applicationId":"agriculture","concentrateMode":"1:10","note":"north field","doseMilliliters":1}`
	w := serve(r, http.MethodPost, "/dosage/records/save", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode[models.DoseRecord](t, w)
	assert.Equal(t, int64(11), got.Data.ID)
	assert.Equal(t, testShareCode, got.Data.ShareCode)
	assert.Equal(t, 10000.0, got.Data.DoseMilliliters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDoseRecord_RejectsInvalidVolume(t *testing.T) {
	r, mock := newRecordRouter(t)

	w := serve(r, http.MethodPost, "/dosage/records/save", `{"volume":"abc","applicationId":"house"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDoseRecord_DBError(t *testing.T) {
	r, mock := newRecordRouter(t)

	mock.ExpectExec("INSERT INTO dose_records").WillReturnError(errors.New("connection lost"))

	w := serve(r, http.MethodPost, "/dosage/records/save", `{"volume":1,"applicationId":"house"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDoseRecords_Paginated(t *testing.T) {
	r, mock := newRecordRouter(t)
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM dose_records WHERE user_id = ? AND application_id = ?")).
		WithArgs(7, "house").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM dose_records WHERE user_id = ? AND application_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(7, "house", 2, 2).
		WillReturnRows(sqlmock.NewRows(recordColumnNames).
			AddRow(3, 7, testShareCode, 1.0, "L", "house", "Stock", 1.0, 20.0, "summary", nil, created))

	w := serve(r, http.MethodGet, "/dosage/records?page=2&pageSize=2&applicationId=house", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Data        []models.DoseRecord `json:"data"`
		TotalCount  int                 `json:"totalCount"`
		CurrentPage int                 `json:"currentPage"`
	}
	require.NoError(t, jsonUnmarshal(w, &got))
	assert.Equal(t, 3, got.TotalCount)
	assert.Equal(t, 2, got.CurrentPage)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "house", got.Data[0].ApplicationID)
	assert.Equal(t, "", got.Data[0].Note)
	assert.True(t, created.Equal(got.Data[0].CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllDoseRecords(t *testing.T) {
	r, mock := newRecordRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM dose_records")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM dose_records ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(recordColumnNames).
			AddRow(1, 3, testShareCode, 1.0, "L", "house", "Stock", 1.0, 20.0, "a", nil, time.Now()).
			AddRow(2, 8, "ZYXWVUTS87654321", 2.0, "L", "drinking", "Stock", 1.0, 20.0, "b", nil, time.Now()))

	w := serve(r, http.MethodGet, "/admin/dosage/records", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Data       []models.DoseRecord `json:"data"`
		TotalCount int                 `json:"totalCount"`
	}
	require.NoError(t, jsonUnmarshal(w, &got))
	assert.Equal(t, 2, got.TotalCount)
	require.Len(t, got.Data, 2)
	assert.Equal(t, 8, got.Data[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDoseRecord(t *testing.T) {
	r, mock := newRecordRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM dose_records WHERE id = ? AND user_id = ?")).
		WithArgs(int64(5), 7).
		WillReturnError(sql.ErrNoRows)

	w := serve(r, http.MethodGet, "/dosage/record?id=5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/dosage/record?id=five", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSharedRecord(t *testing.T) {
	r, mock := newRecordRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM dose_records WHERE share_code = ?")).
		WithArgs(testShareCode).
		WillReturnRows(sqlmock.NewRows(recordColumnNames).
			AddRow(9, 2, testShareCode, 10.0, "Gal", "pond", "Stock", 7.57082, 151.0, "s", "n", time.Now()))

	w := serve(r, http.MethodGet, "/dosage/share/"+testShareCode, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[models.DoseRecord](t, w)
	assert.Equal(t, int64(9), got.Data.ID)
	assert.Equal(t, "Gal", got.Data.Unit)

	w = serve(r, http.MethodGet, "/dosage/share/short", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRecordController_ShareCode(t *testing.T) {
	c := NewRecordController(nil, nil, zap.NewNop())
	code, err := c.NewShareCode()
	require.NoError(t, err)
	assert.Len(t, code, shareCodeLength)
	assert.Regexp(t, `^[0-9A-Z]+$`, code)
}
