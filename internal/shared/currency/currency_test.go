package currency

import "testing"

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		symbol   string
		wantCode string
		wantOK   bool
	}{
		{"$", "USD", true},
		{"€", "EUR", true},
		{"£", "GBP", true},
		{"¥", "JPY", true},
		{"??", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.symbol, func(t *testing.T) {
			t.Parallel()

			code, ok := Lookup(tt.symbol)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.symbol, ok, tt.wantOK)
			}
			if code != tt.wantCode {
				t.Errorf("Lookup(%q) = %q, want %q", tt.symbol, code, tt.wantCode)
			}
		})
	}
}
