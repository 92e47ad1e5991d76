package rbac

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"admin", RoleAdmin, true},
		{"  Repartidor ", RoleRepartidor, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("Parse(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCanTouchParte(t *testing.T) {
	repartidor := Scope{UserID: 7, CompanyID: 1, Role: RoleRepartidor}
	admin := Scope{UserID: 2, CompanyID: 1, Role: RoleAdmin}

	if !repartidor.CanTouchParte(7, 1) {
		t.Fatalf("repartidor should touch own parte")
	}
	if repartidor.CanTouchParte(8, 1) {
		t.Fatalf("repartidor must not touch another user's parte")
	}
	if !admin.CanTouchParte(8, 1) {
		t.Fatalf("admin should touch any parte in own company")
	}
	if admin.CanTouchParte(8, 2) {
		t.Fatalf("admin must not touch a parte in another company")
	}
	if (Scope{Role: "weird"}).CanTouchParte(1, 1) {
		t.Fatalf("unknown role must fail closed")
	}
}
