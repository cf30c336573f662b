package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{"owner@example.com", "a.b+c@sub.domain.in"}
	invalid := []string{"", "not-an-email", "a@", "@b.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	if err := ValidatePhoneNumber("+919876543210", CountryCode); err != nil {
		t.Fatalf("valid number rejected: %v", err)
	}
	if err := ValidatePhoneNumber("12345", CountryCode); err == nil {
		t.Fatal("short number accepted")
	}
}

func TestExtractObjectKeyFromURL(t *testing.T) {
	t.Setenv("GCS_BUCKET", "rentroll-docs")

	tests := []struct {
		in, want string
	}{
		{"owner-1/tenants/3/aadhaar.pdf", "owner-1/tenants/3/aadhaar.pdf"},
		{"gs://rentroll-docs/owner-1/tenants/3/pan.pdf", "owner-1/tenants/3/pan.pdf"},
		{"https://storage.googleapis.com/rentroll-docs/owner-1/tenants/3/agreement.pdf", "owner-1/tenants/3/agreement.pdf"},
		{"owner-1/../secrets", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := ExtractObjectKeyFromURL(tc.in); got != tc.want {
			t.Errorf("ExtractObjectKeyFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("5600.25")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if d.String() != "5600.25" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDecimal("abc"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}

func TestJwtRoundTrip(t *testing.T) {
	token, err := JwtGenerate("owner-123", "Demo")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parsed, err := JwtValidate(token)
	if err != nil || !parsed.Valid {
		t.Fatalf("validate: %v", err)
	}
	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatal("wrong claims type")
	}
	if claims.OwnerId != "owner-123" || claims.Name != "Demo" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}
