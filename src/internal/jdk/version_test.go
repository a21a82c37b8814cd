package jdk

import "testing"

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"patch newer", "17.0.2", "17.0.1", true},
		{"patch older", "17.0.1", "17.0.2", false},
		{"equal", "17.0.2", "17.0.2", false},
		{"major newer", "21.0.1", "17.0.9", true},
		{"underscore patch suffix", "1.8.0_392", "1.8.0_292", true},
		{"underscore vs dots", "1.8.0_392", "1.8.0.392", false},
		{"build metadata", "21.0.4+7", "21.0.4+6", true},
		{"longer wins on tie", "17.0.2.1", "17.0.2", true},
		{"shorter loses on tie", "17.0.2", "17.0.2.1", false},
		{"malformed a", "not-a-version", "17.0.2", false},
		{"malformed b", "17.0.2", "garbage", false},
		{"both malformed", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNewer(tt.a, tt.b); got != tt.want {
				t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMajorOf(t *testing.T) {
	tests := []struct {
		version string
		want    int
	}{
		{"17.0.2", 17},
		{"21.0.4+7", 21},
		{"1.8.0_392", 8},
		{"1.5.0", 5},
		{"11", 11},
		{"9-ea", 9},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := MajorOf(tt.version); got != tt.want {
			t.Errorf("MajorOf(%q) = %d, want %d", tt.version, got, tt.want)
		}
	}
}

func TestIsNewerQualifierTail(t *testing.T) {
	// A trailing non-numeric qualifier ends the numeric prefix instead of
	// poisoning the whole comparison.
	if !IsNewer("8.0.422.b05", "8.0.392") {
		t.Error("expected build-suffixed version to compare on its numeric prefix")
	}
}
