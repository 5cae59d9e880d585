package validate

import "testing"

func TestParseOffset(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"90s", 90},
		{"0s", 0},
		{"1:30", 90},
		{"0:05", 5},
		{"1:15:30", 4530},
		{" 2:00 ", 120},
	}
	for _, tc := range cases {
		got, err := ParseOffset(tc.in)
		if err != nil {
			t.Errorf("ParseOffset(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOffset(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseOffsetRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "abc", "-5s", "1:2:3:4", "1:-30", "90"} {
		if _, err := ParseOffset(in); err == nil {
			t.Errorf("ParseOffset(%q) should fail", in)
		}
	}
}

func TestParseClip(t *testing.T) {
	start, end, err := ParseClip("1:30", "2:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 90 || end != 135 {
		t.Fatalf("clip = %d..%d, want 90..135", start, end)
	}
}

func TestParseClipRequiresEndAfterStart(t *testing.T) {
	if _, _, err := ParseClip("2:00", "2:00"); err == nil {
		t.Fatal("equal boundaries should fail")
	}
	if _, _, err := ParseClip("2:00", "1:00"); err == nil {
		t.Fatal("reversed boundaries should fail")
	}
}
