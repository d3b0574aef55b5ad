package updates

import (
	"errors"
	"regexp"
	"strconv"
)

var errBadClockTime = errors.New("time must look like \"7:30 PM\"")

// Formato 12h con sufijo AM/PM, ej: "7:30 PM", "12:05am".
var clockPattern = regexp.MustCompile(`^\s*(\d{1,2}):([0-5][0-9])\s*([AaPp][Mm])\s*$`)

// parseClockTime convierte un string tipo "7:30 PM" a hora/minuto en 24h.
// "12:xx AM" es medianoche (hora 0) y "12:xx PM" mediodía (hora 12).
func parseClockTime(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, errBadClockTime
	}

	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 {
		return 0, 0, errBadClockTime
	}

	pm := m[3][0] == 'p' || m[3][0] == 'P'
	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}

	return hour, minute, nil
}
