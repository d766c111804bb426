package similarity

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEditDistanceScore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "server", "server", 1.0},
		{"both empty", "", "", 1.0},
		{"empty vs nonempty", "", "printer", 0.0},
		{"nonempty vs empty", "printer", "", 0.0},
		{"one substitution", "Microsft", "Microsoft", 1.0 - 1.0/9.0},
		{"case insensitive", "SERVER", "server", 1.0},
		{"kitten sitting", "kitten", "sitting", 1.0 - 3.0/7.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditDistanceScore(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("EditDistanceScore(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEditDistanceScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different string"},
		{"xyz", "abc"},
		{"short", "a much longer candidate name"},
	}
	for _, p := range pairs {
		got := EditDistanceScore(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("EditDistanceScore(%q, %q) = %f, outside [0,1]", p[0], p[1], got)
		}
	}
}

func TestSoundex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Robert", "R163"},
		{"Rupert", "R163"},
		{"Microsoft", "M262"},
		{"Microsft", "M262"},
		{"Tymczak", "T522"},
		{"Pfister", "P236"},
		{"", ""},
		{"123", ""},
	}
	for _, tt := range tests {
		if got := Soundex(tt.in); got != tt.want {
			t.Errorf("Soundex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPhoneticScore(t *testing.T) {
	if got := PhoneticScore("Microsft", "Microsoft"); got != 1.0 {
		t.Errorf("expected phonetic match for Microsft/Microsoft, got %f", got)
	}
	if got := PhoneticScore("Amazon", "Microsoft"); got != 0.0 {
		t.Errorf("expected no phonetic match for Amazon/Microsoft, got %f", got)
	}
	if got := PhoneticScore("", "Microsoft"); got != 0.0 {
		t.Errorf("empty input must not match phonetically, got %f", got)
	}
}

func TestAcronymScore(t *testing.T) {
	tests := []struct {
		a, full string
		want    float64
	}{
		{"AWS", "Amazon Web Services", 1.0},
		{"aws", "Amazon Web Services", 1.0},
		{"AW", "Amazon Web Services", 0.0},
		{"MC", "Microsoft Corporation", 1.0},
		{"IBM", "IBM", 0.0}, // single word, no initials
		{"", "Amazon Web Services", 0.0},
	}
	for _, tt := range tests {
		if got := AcronymScore(tt.a, tt.full); got != tt.want {
			t.Errorf("AcronymScore(%q, %q) = %f, want %f", tt.a, tt.full, got, tt.want)
		}
	}
}

func TestPartialScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"soft", "Microsoft Corporation", 1.0},
		{"Microsoft Corporation", "soft", 1.0},
		{"ab", "abc", 0.0}, // below minimum length
		{"printer", "server farm", 0.0},
	}
	for _, tt := range tests {
		if got := PartialScore(tt.a, tt.b); got != tt.want {
			t.Errorf("PartialScore(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}
