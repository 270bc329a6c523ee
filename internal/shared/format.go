package shared

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PlaceholderPosterBase serves generated posters for movies without one.
const PlaceholderPosterBase = "https://placehold.co/400x600/222/fff"

// FormatPrice renders an integer amount as rupiah with dot thousands separators, e.g. "Rp 50.000".
func FormatPrice(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}

// FormatShowTime renders a show time as 24h "HH:MM" in loc (local time when nil).
func FormatShowTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}

// FormatMinutes renders a running time, e.g. "155 minutes".
func FormatMinutes(minutes int) string {
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// PosterURL returns posterURL, or a placeholder poster carrying the title when it is empty.
//
// The first space of the title becomes a line break on the placeholder.
func PosterURL(posterURL, title string) string {
	if posterURL != "" {
		return posterURL
	}
	text := strings.Replace(title, " ", "\n", 1)
	return PlaceholderPosterBase + "?text=" + url.QueryEscape(text)
}
