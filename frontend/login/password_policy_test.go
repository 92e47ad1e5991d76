package login

import "testing"

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "reparto2025ok", false},
		{"too short", "abc123", true},
		{"no digits", "solopalabras", true},
		{"no letters", "1234567890", true},
		{"exactly ten with both", "reparto123", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(c.password)
			if c.wantErr && err == nil {
				t.Fatalf("expected error for %q", c.password)
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", c.password, err)
			}
		})
	}
}
