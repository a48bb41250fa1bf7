package views

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/tramatch/tramatch-web/internal/domain/model"
)

const (
	dateLayout     = "2006/01/02"
	dateTimeLayout = "2006/01/02 15:04"
)

// Funcs returns the helpers available to every page template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"date":         FormatDate,
		"dateTime":     FormatDateTime,
		"relTime":      RelativeTime,
		"formatNumber": FormatNumber,
		"yen":          Yen,
		"deref":        derefInt,
		"statusLabel":  model.StatusLabel,
		"statusClass":  statusClass,
		"truncate":     Truncate,
		"vehicleTypes": func() []string { return model.VehicleTypes },
		"toJSON": func(v any) (string, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
}

func timeOf(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// FormatDate renders a date as 2026/11/02; nil and zero times render empty.
func FormatDate(v any) string {
	t, ok := timeOf(v)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}

// FormatDateTime renders a local timestamp as 2026/11/02 15:04.
func FormatDateTime(v any) string {
	t, ok := timeOf(v)
	if !ok {
		return ""
	}
	return t.Local().Format(dateTimeLayout)
}

// RelativeTime describes how long ago t was. Future times read as "たった今".
func RelativeTime(v any) string {
	t, ok := timeOf(v)
	if !ok {
		return ""
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "たった今"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + "分前"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "時間前"
	case diff < 7*24*time.Hour:
		return strconv.Itoa(int(diff.Hours()/24)) + "日前"
	default:
		return FormatDateTime(t)
	}
}

// FormatNumber formats an integer with comma separators. *int nil renders empty.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	case *int:
		if x == nil {
			return ""
		}
		n = int64(*x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var b strings.Builder
		head := len(s) % 3
		if head == 0 {
			head = 3
		}
		b.WriteString(s[:head])
		for i := head; i < len(s); i += 3 {
			b.WriteByte(',')
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// Yen formats an amount as ¥85,000; nil renders "要相談".
func Yen(v any) string {
	if p, ok := v.(*int); ok && p == nil {
		return "要相談"
	}
	return "¥" + FormatNumber(v)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func statusClass(status string) string {
	switch status {
	case model.StatusActive:
		return "badge-active"
	case model.StatusCompleted:
		return "badge-completed"
	case model.StatusCancelled:
		return "badge-cancelled"
	default:
		return "badge-custom"
	}
}

// Truncate shortens s to n runes, ending with an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
