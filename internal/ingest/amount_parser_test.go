package ingest

import "testing"

func TestParseCrore(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"273.45 Cr.", 273.45, true},
		{"50 Cr", 50, true},
		{"1,250 Cr", 1250, true},
		{"12,34,567 Cr.", 1234567, true},
		{"80Cr", 80, true},
		{"  90.5  cr  ", 90.5, true},
		{"42", 42, true},
		{"", 0, false},
		{"TBD", 0, false},
		{"Refer notice", 0, false},
		{"Cr", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCrore(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseCrore(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseCrore(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
