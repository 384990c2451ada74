package models

import (
	"errors"
	"testing"

	"github.com/verdipos/verdi_backend/utils"
)

func TestShiftOpenAndClose(t *testing.T) {
	ctx := setupTestDB(t)

	shift, err := OpenShift(ctx, dec("100"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if shift.CashierName != "cashier1" || !shift.IsOpen() {
		t.Fatalf("unexpected open shift: %+v", shift)
	}

	cases := []struct {
		closing string
		sales   string
		diff    string
	}{
		{"350", "250", "0"},
		{"340", "250", "-10"},
		{"365.5", "250", "15.5"},
	}
	for _, tc := range cases {
		open, err := OpenShift(ctx, dec("100"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		closed, err := CloseShift(ctx, open.ID, dec(tc.closing), dec(tc.sales))
		if err != nil {
			t.Fatalf("close: %v", err)
		}
		if closed.EndTime == nil {
			t.Fatalf("expected end time")
		}
		if !closed.DiffCash.Equal(dec(tc.diff)) || !closed.NetCash.Equal(dec(tc.sales)) {
			t.Fatalf("closing %s sales %s: diff %s net %s", tc.closing, tc.sales, closed.DiffCash, closed.NetCash)
		}
	}

	if _, err := CloseShift(ctx, shift.ID, dec("100"), dec("0")); err != nil {
		t.Fatalf("close first shift: %v", err)
	}
	if _, err := CloseShift(ctx, shift.ID, dec("100"), dec("0")); !errors.Is(err, ErrShiftClosed) {
		t.Fatalf("expected ErrShiftClosed, got %v", err)
	}
	if _, err := CloseShift(ctx, 999, dec("1"), dec("1")); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	shifts, err := ListShifts(ctx, 0)
	if err != nil || len(shifts) != 4 {
		t.Fatalf("expected 4 shifts, got %d, %v", len(shifts), err)
	}
	recent, _ := ListShifts(ctx, 2)
	if len(recent) != 2 {
		t.Fatalf("expected limit 2, got %d", len(recent))
	}
}
