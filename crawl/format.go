package crawl

import (
	"fmt"
	"strings"
)

// ShortURL fits a URL into width columns for progress output. The scheme is
// dropped first; if that is not enough the head of the remainder is replaced
// by "..." so the path tail stays visible.
func ShortURL(url string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(url) <= width {
		return url
	}
	if _, rest, ok := strings.Cut(url, "://"); ok {
		url = rest
	}
	switch {
	case len(url) <= width:
		return url
	case width < 4:
		return url[:width]
	default:
		return "..." + url[len(url)-width+3:]
	}
}

// FormatBytes renders n bytes with a binary unit suffix.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}

// ContentBytes returns the total size of the record contents in a result.
func (r *Result) ContentBytes() int {
	var n int
	for _, rec := range r.Records {
		n += len(rec.Content)
	}
	return n
}

// Summary describes a crawl result in one line.
func (r *Result) Summary() string {
	return fmt.Sprintf("Recorded %d pages (%s), %d failed", r.Recorded, FormatBytes(r.ContentBytes()), r.Failed)
}
