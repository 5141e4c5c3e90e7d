package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sikaops/sika-backend/internal/domain"
	"github.com/sikaops/sika-backend/internal/testutil"
)

func TestCreateDebt_Success(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)

	due := day(2025, time.June, 30)
	created, err := svc.CreateDebt(uuid.New(), CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "  Awa  ",
		Reason:           "Rent advance",
		TotalAmount:      decimal.NewFromInt(50000),
		PaidAmount:       decimal.NewFromInt(10000),
		DueDate:          &due,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.CounterpartyName != "Awa" {
		t.Errorf("counterparty = %q, want trimmed", created.CounterpartyName)
	}
	if !created.Remaining().Equal(decimal.NewFromInt(40000)) {
		t.Errorf("remaining = %s, want 40000", created.Remaining())
	}
	if created.Settled() {
		t.Error("expected debt not settled")
	}
}

func TestCreateDebt_ValidationErrors(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)
	ownerID := uuid.New()

	tests := []struct {
		name  string
		input CreateDebtInput
		want  error
	}{
		{
			name: "bad direction",
			input: CreateDebtInput{
				Direction:        "lent",
				CounterpartyName: "Awa",
				Reason:           "x",
				TotalAmount:      decimal.NewFromInt(100),
			},
			want: domain.ErrInvalidDebtDirection,
		},
		{
			name: "missing counterparty",
			input: CreateDebtInput{
				Direction:   domain.DebtOwed,
				Reason:      "x",
				TotalAmount: decimal.NewFromInt(100),
			},
			want: domain.ErrCounterpartyRequired,
		},
		{
			name: "missing reason",
			input: CreateDebtInput{
				Direction:        domain.DebtOwed,
				CounterpartyName: "Awa",
				TotalAmount:      decimal.NewFromInt(100),
			},
			want: domain.ErrDebtReasonRequired,
		},
		{
			name: "zero total",
			input: CreateDebtInput{
				Direction:        domain.DebtOwed,
				CounterpartyName: "Awa",
				Reason:           "x",
				TotalAmount:      decimal.Zero,
			},
			want: domain.ErrInvalidDebtTotalAmount,
		},
		{
			name: "negative paid",
			input: CreateDebtInput{
				Direction:        domain.DebtOwed,
				CounterpartyName: "Awa",
				Reason:           "x",
				TotalAmount:      decimal.NewFromInt(100),
				PaidAmount:       decimal.NewFromInt(-1),
			},
			want: domain.ErrInvalidDebtPaidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDebt(ownerID, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAddPayment(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)

	ownerID := uuid.New()
	created, _ := svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwing,
		CounterpartyName: "Moussa",
		Reason:           "Loan",
		TotalAmount:      decimal.NewFromInt(30000),
	})

	debt, err := svc.AddPayment(ownerID, created.ID, decimal.NewFromInt(20000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !debt.PaidAmount.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("paid = %s", debt.PaidAmount)
	}
	if debt.Settled() {
		t.Error("expected not settled")
	}

	debt, err = svc.AddPayment(ownerID, created.ID, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !debt.Settled() {
		t.Error("expected settled after full payment")
	}
}

func TestAddPayment_RejectsNonPositiveDelta(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)

	ownerID := uuid.New()
	created, _ := svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwing,
		CounterpartyName: "Moussa",
		Reason:           "Loan",
		TotalAmount:      decimal.NewFromInt(30000),
	})

	for _, delta := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-500)} {
		if _, err := svc.AddPayment(ownerID, created.ID, delta); !errors.Is(err, domain.ErrInvalidPaymentDelta) {
			t.Errorf("delta %s: expected ErrInvalidPaymentDelta, got %v", delta, err)
		}
	}
}

func TestAddPayment_OverpaymentAllowed(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)

	ownerID := uuid.New()
	created, _ := svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "Awa",
		Reason:           "x",
		TotalAmount:      decimal.NewFromInt(1000),
	})

	debt, err := svc.AddPayment(ownerID, created.ID, decimal.NewFromInt(1500))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !debt.Remaining().Equal(decimal.NewFromInt(-500)) {
		t.Errorf("remaining = %s, want -500", debt.Remaining())
	}
	if !debt.Settled() {
		t.Error("expected overpaid debt to read as settled")
	}
}

func TestGetTotals(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)
	ownerID := uuid.New()

	svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "Awa",
		Reason:           "a",
		TotalAmount:      decimal.NewFromInt(50000),
		PaidAmount:       decimal.NewFromInt(20000),
	})
	svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "Binta",
		Reason:           "b",
		TotalAmount:      decimal.NewFromInt(10000),
	})
	svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwing,
		CounterpartyName: "Moussa",
		Reason:           "c",
		TotalAmount:      decimal.NewFromInt(25000),
		PaidAmount:       decimal.NewFromInt(5000),
	})
	// Another user's debt must not leak into the totals
	svc.CreateDebt(uuid.New(), CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "Other",
		Reason:           "d",
		TotalAmount:      decimal.NewFromInt(99999),
	})

	totals, err := svc.GetTotals(ownerID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !totals.OwedToUser.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("owedToUser = %s, want 40000", totals.OwedToUser)
	}
	if !totals.UserOwes.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("userOwes = %s, want 20000", totals.UserOwes)
	}
}

func TestDeleteDebt_Idempotent(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)

	ownerID := uuid.New()
	created, _ := svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwed,
		CounterpartyName: "Awa",
		Reason:           "x",
		TotalAmount:      decimal.NewFromInt(1000),
	})

	if err := svc.DeleteDebt(ownerID, created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteDebt(ownerID, created.ID); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
}

func TestDebtService_PublishesEvents(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)
	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)

	ownerID := uuid.New()
	created, err := svc.CreateDebt(ownerID, CreateDebtInput{
		Direction:        domain.DebtOwing,
		CounterpartyName: "Moussa",
		Reason:           "Loan",
		TotalAmount:      decimal.NewFromInt(30000),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.AddPayment(ownerID, created.ID, decimal.NewFromInt(5000)); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if err := svc.DeleteDebt(ownerID, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	want := []string{"debt.created", "debt.payment_added", "debt.deleted"}
	got := publisher.EventTypes()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}
