package repository

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

func TestProcessedMessageRepository(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewProcessedMessageRepository(mock, zap.NewNop())
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO processed_messages").WithArgs("meta", "wamid.1").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	first, err := repo.MarkProcessed(ctx, "meta", "wamid.1")
	if err != nil || !first {
		t.Fatalf("expected first mark to succeed, got %v %v", first, err)
	}

	mock.ExpectExec("INSERT INTO processed_messages").WithArgs("meta", "wamid.1").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	again, err := repo.MarkProcessed(ctx, "meta", "wamid.1")
	if err != nil || again {
		t.Fatalf("expected duplicate to be reported, got %v %v", again, err)
	}

	mock.ExpectExec("DELETE FROM processed_messages").WithArgs("meta", "wamid.1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := repo.Unmark(ctx, "meta", "wamid.1"); err != nil {
		t.Fatalf("unmark: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
