package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeOfAndPredicates(t *testing.T) {
	if !IsNotFound(NotFound("parte not found")) {
		t.Fatalf("expected not-found predicate to match")
	}
	if !IsPermissionDenied(PermissionDenied("no")) {
		t.Fatalf("expected permission predicate to match")
	}
	if !IsValidation(Validation("bad date")) {
		t.Fatalf("expected validation predicate to match")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors have no code")
	}

	wrapped := fmt.Errorf("save parte: %w", PermissionDenied("foreign company"))
	if !IsPermissionDenied(wrapped) {
		t.Fatalf("predicates must see through wrapping")
	}
}

func TestFromSQLiteMapsConstraints(t *testing.T) {
	cases := []struct {
		driverMsg string
		wantCode  string
	}{
		{"UNIQUE constraint failed: companies.name", CodeDuplicateCompany},
		{"UNIQUE constraint failed: users.company_id, users.username", CodeDuplicateUsername},
		{"UNIQUE constraint failed: partes_mensuales.user_id, partes_mensuales.year, partes_mensuales.month", CodeDuplicateMensual},
		{"FOREIGN KEY constraint failed", CodeIntegrity},
	}
	for _, c := range cases {
		got := FromSQLite(errors.New(c.driverMsg))
		if CodeOf(got) != c.wantCode {
			t.Fatalf("FromSQLite(%q) code = %q, want %q", c.driverMsg, CodeOf(got), c.wantCode)
		}
		// Stable message, no driver text interpolated.
		if MessageOf(got) == c.driverMsg {
			t.Fatalf("driver message leaked for %q", c.driverMsg)
		}
	}
}

func TestFromSQLitePassthrough(t *testing.T) {
	plain := errors.New("disk I/O error")
	if FromSQLite(plain) != plain {
		t.Fatalf("non-constraint errors must pass through")
	}
	if FromSQLite(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}
