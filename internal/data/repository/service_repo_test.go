package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservation-bot/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func TestServiceRepositoryLookups(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewServiceRepository(mock, zap.NewNop())
	ctx := context.Background()
	businessID := uuid.New()
	now := time.Now()
	columns := []string{"id", "business_id", "name", "price", "duration_min", "created_at", "updated_at"}

	mock.ExpectQuery("LOWER\\(name\\) = LOWER\\(\\$2\\)").WithArgs(businessID, "haircut").WillReturnRows(
		pgxmock.NewRows(columns).AddRow(uuid.New(), businessID, "Haircut", 20.0, 30, now, now),
	)
	service, err := repo.FindByName(ctx, businessID, "haircut")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if info := service.Info(); info.Price != 20.0 || info.DurationMin != 30 {
		t.Fatalf("unexpected info %+v", info)
	}

	mock.ExpectQuery("LOWER\\(name\\) = LOWER\\(\\$2\\)").WithArgs(businessID, "massage").WillReturnRows(pgxmock.NewRows(columns))
	service, err = repo.FindByName(ctx, businessID, "massage")
	if err != nil || service != nil {
		t.Fatalf("expected no service, got %+v %v", service, err)
	}
	if info := service.Info(); info != entity.DefaultServiceInfo {
		t.Fatalf("expected default info, got %+v", info)
	}

	mock.ExpectQuery("SELECT name FROM services").WithArgs(businessID).WillReturnRows(
		pgxmock.NewRows([]string{"name"}).AddRow("Beard Trim").AddRow("Haircut"),
	)
	names, err := repo.ListNames(ctx, businessID)
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != 2 || names[0] != "Beard Trim" || names[1] != "Haircut" {
		t.Fatalf("unexpected names %v", names)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestServiceRepositoryCreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewServiceRepository(mock, zap.NewNop())
	now := time.Now()
	service := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BusinessID:   uuid.New(),
		Name:         "Haircut",
		Price:        20,
		DurationMin:  30,
	}

	mock.ExpectExec("INSERT INTO services").
		WithArgs(service.ID, service.BusinessID, service.Name, service.Price, service.DurationMin, service.CreatedAt, service.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if err := repo.Create(context.Background(), service); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	mock.ExpectExec("DELETE FROM services").WithArgs(service.BusinessID, service.ID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	if err := repo.Delete(context.Background(), service.BusinessID, service.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
