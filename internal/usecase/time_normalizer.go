package usecase

import (
	"strings"
	"time"
	"unicode"
)

// timeLayouts are tried in order; the first that parses wins.
var timeLayouts = []string{"15:04", "3 PM", "3:04 PM", "15"}

// NormalizeTime turns free text such as "4 PM", "4pm", "4 p.m." or "16:00"
// into a zero-padded 24-hour HH:MM. Applying it to its own output returns
// the same value.
func NormalizeTime(raw string) (string, error) {
	text := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), ".", "")
	fields := strings.Fields(text)

	candidate := ""
	for i, field := range fields {
		if !strings.ContainsFunc(field, unicode.IsDigit) {
			continue
		}
		candidate = strings.TrimRight(field, ",;!?")
		if hasMeridiem(candidate) {
			candidate = candidate[:len(candidate)-2] + " " + candidate[len(candidate)-2:]
		} else if i+1 < len(fields) {
			next := strings.TrimRight(fields[i+1], ",;!?")
			if next == "AM" || next == "PM" {
				candidate += " " + next
			}
		}
		break
	}
	if candidate == "" || zeroMeridiemHour(candidate) {
		return "", ErrTimeNotParseable
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", ErrTimeNotParseable
}

// hasMeridiem reports a glued suffix such as "4PM" or "4:30AM".
func hasMeridiem(token string) bool {
	if len(token) < 3 {
		return false
	}
	suffix := token[len(token)-2:]
	return (suffix == "AM" || suffix == "PM") && unicode.IsDigit(rune(token[len(token)-3]))
}

// zeroMeridiemHour catches "0 PM" and "0:30 AM", which the "3" layout
// would otherwise accept. 12-hour clocks run 1 to 12.
func zeroMeridiemHour(candidate string) bool {
	clock, meridiem, found := strings.Cut(candidate, " ")
	if !found || (meridiem != "AM" && meridiem != "PM") {
		return false
	}
	hour, _, _ := strings.Cut(clock, ":")
	return hour != "" && strings.Trim(hour, "0") == ""
}

// minutesOf converts a normalized HH:MM into minutes after midnight.
func minutesOf(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func formatMinutes(m int) string {
	return time.Date(0, 1, 1, m/60, m%60, 0, 0, time.UTC).Format("15:04")
}
