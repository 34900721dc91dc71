package validate

import (
	"net/url"
	"regexp"
	"time"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validFormat checks the fixed set of supported formats. Unknown formats
// accept every value.
func validFormat(format, s string) bool {
	switch format {
	case "email":
		return emailRe.MatchString(s)
	case "uri", "url":
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
	case "date":
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	case "date-time":
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	}
	return true
}
