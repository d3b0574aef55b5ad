package updates

import "testing"

func TestParseClockTime_Valid(t *testing.T) {
	cases := []struct {
		in     string
		hour   int
		minute int
	}{
		{"7:30 PM", 19, 30},
		{"7:30 AM", 7, 30},
		{"07:05 am", 7, 5},
		{"12:00 AM", 0, 0},  // medianoche
		{"12:00 PM", 12, 0}, // mediodía
		{"12:59 pm", 12, 59},
		{"  9:15 PM ", 21, 15},
		{"1:00pm", 13, 0},
	}

	for _, c := range cases {
		h, m, err := parseClockTime(c.in)
		if err != nil {
			t.Fatalf("parseClockTime(%q) error: %v", c.in, err)
		}
		if h != c.hour || m != c.minute {
			t.Fatalf("parseClockTime(%q) = %d:%d, expected %d:%d", c.in, h, m, c.hour, c.minute)
		}
	}
}

func TestParseClockTime_Invalid(t *testing.T) {
	cases := []string{
		"",
		"7:30",     // sin AM/PM
		"19:30",    // 24h no soportado
		"13:00 PM", // hora fuera de 1..12
		"0:30 AM",
		"7:60 PM", // minuto inválido
		"7.30 PM",
		"soon",
		"PM 7:30",
	}

	for _, c := range cases {
		if _, _, err := parseClockTime(c); err == nil {
			t.Fatalf("parseClockTime(%q) expected error, got nil", c)
		}
	}
}
