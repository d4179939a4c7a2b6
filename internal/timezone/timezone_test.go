package timezone

import "testing"

func TestLocation(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{"valid zone", "America/Sao_Paulo", false},
		{"utc", "UTC", false},
		{"empty name", "", true},
		{"whitespace only", "   ", true},
		{"unknown zone", "Mars/Olympus", true},
		{"offset is not a name", "+02:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Location(tt.tz)
			if tt.wantErr {
				if err != ErrInvalidTimezone {
					t.Fatalf("expected ErrInvalidTimezone, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Location(%q): %v", tt.tz, err)
			}
			if loc.String() != tt.tz {
				t.Errorf("loc = %s, want %s", loc, tt.tz)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("Europe/Lisbon") {
		t.Error("Europe/Lisbon should be valid")
	}
	if IsValid("") {
		t.Error("empty name should be invalid")
	}
}
