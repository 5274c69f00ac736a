package repository

import (
	"context"
	"testing"
	"time"

	"farewatch-service/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gormDB, mock
}

func TestSubscriptionRepoListAll(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGormSubscriptionRepository(gormDB)

	returnDate := "2025-03-20"
	threshold := int64(40000)
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "origin", "destination", "depart_date", "return_date",
		"passengers", "threshold", "threshold_is_manual", "last_notified_price",
		"last_notified_at", "created_at", "updated_at", "deleted_at",
	}).
		AddRow(1, 42, "MOW", "DXB", "2025-03-10", returnDate, 2, threshold, true, nil, nil, now, now, nil).
		AddRow(2, 43, "MOW", "DPS", "2025-04-01", nil, 3, nil, false, nil, nil, now, now, nil)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnRows(rows)

	subs, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("subscriptions = %d, want 2", len(subs))
	}

	first := subs[0]
	if first.ID != 1 || first.UserID != 42 || first.Origin != "MOW" || first.Destination != "DXB" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.ReturnDate == nil || *first.ReturnDate != returnDate {
		t.Fatalf("return date = %v, want %q", first.ReturnDate, returnDate)
	}
	if first.Threshold == nil || *first.Threshold != threshold || !first.ThresholdIsManual {
		t.Fatalf("threshold = %v manual=%v", first.Threshold, first.ThresholdIsManual)
	}

	second := subs[1]
	if second.ReturnDate != nil {
		t.Fatalf("one-way row has return date %v", *second.ReturnDate)
	}
	if second.Threshold != nil {
		t.Fatalf("unset threshold decoded as %v", *second.Threshold)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubscriptionRepoCreate(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGormSubscriptionRepository(gormDB)

	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	returnDate := "2025-03-20"
	threshold := int64(40000)
	sub := &entity.Subscription{
		UserID:            42,
		Origin:            "MOW",
		Destination:       "DXB",
		DepartDate:        "2025-03-10",
		ReturnDate:        &returnDate,
		Passengers:        0, // malformed input clamps to 1 on insert
		Threshold:         &threshold,
		ThresholdIsManual: true,
	}
	id, err := repo.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 5 {
		t.Fatalf("id = %d, want 5", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubscriptionRepoRecordNotification(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGormSubscriptionRepository(gormDB)

	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordNotification(context.Background(), 5, 17000, time.Now()); err != nil {
		t.Fatalf("RecordNotification returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubscriptionRepoUpdateThreshold(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGormSubscriptionRepository(gormDB)

	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateThreshold(context.Background(), 5, 15000, false); err != nil {
		t.Fatalf("UpdateThreshold returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSubscriptionRepoDelete(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewGormSubscriptionRepository(gormDB)

	// Soft delete issues an UPDATE against deleted_at
	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
