package finance

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/inclusion-hub/heva/internal/users"
)

func TestListQueryPlaceholders(t *testing.T) {
	userID := uuid.New()

	sql, args, err := listQuery(Filter{UserID: userID.String(), Kind: KindIncome})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT id, user_id, amount_cents, kind, description, source, entry_date FROM financial_entries WHERE user_id = $1 AND kind = $2 ORDER BY entry_date DESC"
	if sql != want {
		t.Fatalf("sql = %s\nwant  %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{userID, KindIncome}) {
		t.Fatalf("unexpected args %v", args)
	}

	sql, args, err = listQuery(Filter{})
	if err != nil {
		t.Fatalf("build unfiltered: %v", err)
	}
	if sql != "SELECT id, user_id, amount_cents, kind, description, source, entry_date FROM financial_entries ORDER BY entry_date DESC" || len(args) != 0 {
		t.Fatalf("unexpected unfiltered query %s %v", sql, args)
	}
}

func TestPostgresListRejectsMalformedUserID(t *testing.T) {
	repo := NewPostgresRepository(nil)
	if _, err := repo.List(context.Background(), Filter{UserID: "not-a-uuid"}); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected users.ErrNotFound, got %v", err)
	}
}
