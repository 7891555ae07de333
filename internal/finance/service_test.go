package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/inclusion-hub/heva/internal/users"
)

func registerUser(t *testing.T, repo users.Repository) users.User {
	t.Helper()
	user, err := users.NewService(repo).Register(context.Background(), users.Registration{
		Email:    "kofi@example.org",
		Password: "long-enough",
		FullName: "Kofi Mensah",
	})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	return user
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "10000", want: 1_000_000},
		{raw: "10000.01", want: 1_000_001},
		{raw: "0.5", want: 50},
		{raw: ".75", want: 75},
		{raw: " 12.30 ", want: 1_230},
		{raw: "0", wantErr: true},
		{raw: "-5", wantErr: true},
		{raw: "1.234", wantErr: true},
		{raw: "1.", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1e3", wantErr: true},
		{raw: "12.+5", wantErr: true},
		{raw: "10000000000", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ParseAmount(%q): expected ErrInvalidAmount, got %d, %v", tc.raw, got, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(1_000_001); got != "10000.01" {
		t.Fatalf("unexpected format %s", got)
	}
	if got := FormatAmount(-50); got != "-0.50" {
		t.Fatalf("unexpected format %s", got)
	}
}

func TestRecordAndList(t *testing.T) {
	userRepo := users.NewMemoryRepository()
	user := registerUser(t, userRepo)
	svc := NewService(NewMemoryRepository(), userRepo)
	ctx := context.Background()

	if _, err := svc.Record(ctx, RecordInput{UserID: user.ID, Amount: "1500", Kind: "Income", Source: "M-PESA"}); err != nil {
		t.Fatalf("record income: %v", err)
	}
	if _, err := svc.Record(ctx, RecordInput{UserID: user.ID, Amount: "200.25", Kind: KindExpense}); err != nil {
		t.Fatalf("record expense: %v", err)
	}

	all, err := svc.ListByUser(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	incomes, err := svc.ListByUser(ctx, user.ID, KindIncome)
	if err != nil {
		t.Fatalf("list incomes: %v", err)
	}
	if len(incomes) != 1 || incomes[0].AmountCents != 150_000 {
		t.Fatalf("unexpected incomes: %+v", incomes)
	}
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	userRepo := users.NewMemoryRepository()
	user := registerUser(t, userRepo)
	svc := NewService(NewMemoryRepository(), userRepo)
	ctx := context.Background()

	if _, err := svc.Record(ctx, RecordInput{UserID: user.ID, Amount: "10", Kind: "gift"}); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if _, err := svc.Record(ctx, RecordInput{UserID: user.ID, Amount: "-10", Kind: KindIncome}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Record(ctx, RecordInput{UserID: "nobody", Amount: "10", Kind: KindIncome}); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected users.ErrNotFound, got %v", err)
	}
}
