package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iliyamo/hbnb/internal/apperr"
	"github.com/iliyamo/hbnb/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var userColumns = []string{"id", "created_at", "updated_at", "first_name", "last_name", "email", "password_hash", "is_admin"}

func TestGormGetUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", now, now, "Ada", "Lovelace", "ada@example.com", "hash", true))

	u, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)

	mock.ExpectQuery("SELECT \\* FROM `places` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `email` = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", now, now, "Ada", "Lovelace", "ada@example.com", "hash", false))

	u, err := repo.GetByEmail(context.Background(), " Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUnknownAttributeSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepo(db)

	_, err := repo.GetByAttribute(context.Background(), "password_hash; DROP TABLE users", "x")
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAddDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormAmenityRepo(db)
	a, err := model.NewAmenity("Wifi")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO `amenities`").
		WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry 'Wifi' for key 'idx_amenities_name'"})

	assert.ErrorIs(t, repo.Add(context.Background(), a), ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAddOmitsAssociations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)
	p, err := model.NewPlace("Loft", "", 10, 0, 0, "owner")
	require.NoError(t, err)
	p.Amenities = []model.Amenity{{Base: model.Base{ID: "a1"}, Name: "Wifi"}}

	// one insert only: no amenity upsert, no join row
	mock.ExpectExec("INSERT INTO `places`").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Add(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReviewRepo(db)
	created := time.Now().UTC().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `reviews` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "text", "rating", "place_id", "user_id"}).
			AddRow("r1", created, created, "ok", 3, "p1", "u1"))
	mock.ExpectExec("UPDATE `reviews` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rating := 5
	r, err := repo.Update(context.Background(), "r1", model.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "ok", r.Text)
	assert.True(t, r.UpdatedAt.After(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateInvalidRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReviewRepo(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `reviews` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "text", "rating", "place_id", "user_id"}).
			AddRow("r1", now, now, "ok", 3, "p1", "u1"))
	mock.ExpectRollback()

	rating := 9
	_, err := repo.Update(context.Background(), "r1", model.ReviewPatch{Rating: &rating})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReviewRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `reviews` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "nope", model.ReviewPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)

	mock.ExpectExec("DELETE FROM `places` WHERE id = \\?").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `places` WHERE id = \\?").
		WithArgs("p2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p2"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListByPlace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReviewRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT \\* FROM `reviews` WHERE place_id = \\? ORDER BY created_at").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "text", "rating", "place_id", "user_id"}).
			AddRow("r1", now, now, "a", 4, "p1", "u1").
			AddRow("r2", now, now, "b", 2, "p1", "u2"))

	reviews, err := repo.ListByPlace(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "u2", reviews[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetByPlaceAndUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormReviewRepo(db)

	mock.ExpectQuery("SELECT \\* FROM `reviews` WHERE place_id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByPlaceAndUser(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translate(&mysqldrv.MySQLError{Number: 1062}), ErrDuplicate)

	other := &mysqldrv.MySQLError{Number: 1451}
	assert.Equal(t, error(other), translate(other))
}

func TestGormAddAmenitiesLinksOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)

	// join row upsert only; the amenity row is never written
	mock.ExpectExec("UPDATE `places` SET `updated_at`=\\? WHERE .*`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `place_amenities` \\(`place_id`,`amenity_id`\\) VALUES \\(\\?,\\?\\) ON DUPLICATE KEY UPDATE `place_id`=`place_id`").
		WithArgs("p1", "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AddAmenities(context.Background(), "p1", []model.Amenity{{Base: model.Base{ID: "a1"}, Name: "Wifi"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAddNoAmenitiesSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)

	require.NoError(t, repo.AddAmenities(context.Background(), "p1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPlaceAmenities(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .* FROM `amenities` JOIN `place_amenities` ON .*`place_amenities`.`amenity_id` = `amenities`.`id`").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "place_id", "amenity_id"}).
			AddRow("a1", now, now, "Wifi", "p1", "a1").
			AddRow("a2", now, now, "Pool", "p1", "a2"))

	got, err := repo.Amenities(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Wifi", got[0].Name)
	assert.Equal(t, "a2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormClearAmenities(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormPlaceRepo(db)

	mock.ExpectExec("DELETE FROM `place_amenities` WHERE .*`place_id`").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ClearAmenities(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
