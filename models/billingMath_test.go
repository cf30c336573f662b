package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeBillCharges(t *testing.T) {
	// rent 5000, water 200, prev 100, curr 150, rate 8
	charges := ComputeBillCharges(100, 150, dec(5000), dec(200), dec(8), decimal.Zero)

	if charges.UnitsConsumed != 50 {
		t.Fatalf("expected 50 units, got %d", charges.UnitsConsumed)
	}
	if !charges.Electricity.Equal(dec(400)) {
		t.Fatalf("expected electricity 400, got %s", charges.Electricity)
	}
	if !charges.Total.Equal(dec(5600)) {
		t.Fatalf("expected total 5600, got %s", charges.Total)
	}
}

func TestComputeBillChargesWithAdHoc(t *testing.T) {
	charges := ComputeBillCharges(100, 150, dec(5000), dec(200), dec(8), dec(350))
	if !charges.Total.Equal(dec(5950)) {
		t.Fatalf("expected total 5950, got %s", charges.Total)
	}
}

func TestComputeBillChargesClampsNegativeUnits(t *testing.T) {
	// current below previous must clamp to zero, never a negative charge
	charges := ComputeBillCharges(150, 100, dec(5000), dec(200), dec(8), decimal.Zero)

	if charges.UnitsConsumed != 0 {
		t.Fatalf("expected 0 units, got %d", charges.UnitsConsumed)
	}
	if !charges.Electricity.Equal(decimal.Zero) {
		t.Fatalf("expected electricity 0, got %s", charges.Electricity)
	}
	if !charges.Total.Equal(dec(5200)) {
		t.Fatalf("expected total 5200, got %s", charges.Total)
	}
}

func TestComputeBillChargesFirstBillStartsFromZero(t *testing.T) {
	charges := ComputeBillCharges(0, 100, dec(5000), dec(200), dec(8), decimal.Zero)
	if charges.UnitsConsumed != 100 {
		t.Fatalf("expected 100 units, got %d", charges.UnitsConsumed)
	}
	if !charges.Total.Equal(dec(6000)) {
		t.Fatalf("expected total 6000, got %s", charges.Total)
	}
}

func TestComputeBillChargesFractionalRate(t *testing.T) {
	rate, _ := decimal.NewFromString("8.50")
	charges := ComputeBillCharges(0, 10, dec(1000), dec(200), rate, decimal.Zero)
	if !charges.Electricity.Equal(decimal.RequireFromString("85")) {
		t.Fatalf("expected electricity 85, got %s", charges.Electricity)
	}
	if !charges.Total.Equal(decimal.RequireFromString("1285")) {
		t.Fatalf("expected total 1285, got %s", charges.Total)
	}
}

func TestDeriveBillStatus(t *testing.T) {
	tests := []struct {
		paid, total int64
		want        BillStatus
	}{
		{0, 5600, BillStatusUnpaid},
		{2000, 5600, BillStatusPartial},
		{5600, 5600, BillStatusPaid},
	}
	for _, tc := range tests {
		got := DeriveBillStatus(dec(tc.paid), dec(tc.total))
		if got != tc.want {
			t.Fatalf("DeriveBillStatus(%d, %d) = %s, want %s", tc.paid, tc.total, got, tc.want)
		}
	}
}

func TestPendingAmount(t *testing.T) {
	b := Bill{TotalAmount: dec(5600), PaidAmount: dec(2000)}
	if !b.PendingAmount().Equal(dec(3600)) {
		t.Fatalf("expected pending 3600, got %s", b.PendingAmount())
	}
}

func TestFormatPaymentLogLine(t *testing.T) {
	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	line := formatPaymentLogLine(at, PaymentMethodUpi, dec(2000), "march rent", dec(2000), dec(3600))
	want := "[2026-03-05 14:30] UPI received 2000 • march rent (Paid 2000, Pending 3600)"
	if line != want {
		t.Fatalf("got %q, want %q", line, want)
	}
}

func TestFormatPaymentLogLineWithoutNote(t *testing.T) {
	at := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	line := formatPaymentLogLine(at, PaymentMethodCash, dec(5600), "", dec(5600), dec(0))
	if strings.Contains(line, "•") {
		t.Fatalf("note separator should be absent when note is empty: %q", line)
	}
	if line != "[2026-03-05 14:30] CASH received 5600 (Paid 5600, Pending 0)" {
		t.Fatalf("unexpected line: %q", line)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if _, err := ParsePaymentMethod("UPI"); err != nil {
		t.Fatalf("UPI should parse: %v", err)
	}
	if _, err := ParsePaymentMethod("CHEQUE"); err == nil {
		t.Fatal("CHEQUE should be rejected")
	}
}

func TestParseTenantDocumentKind(t *testing.T) {
	for _, k := range []string{"profile_photo", "aadhaar", "pan", "agreement"} {
		if _, err := ParseTenantDocumentKind(k); err != nil {
			t.Fatalf("%s should parse: %v", k, err)
		}
	}
	if _, err := ParseTenantDocumentKind("passport"); err == nil {
		t.Fatal("passport should be rejected")
	}
}
