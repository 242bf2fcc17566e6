package content

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input bounds for public and admin forms.
const (
	MaxCaptionLen     = 200
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxURLLen         = 2048
	MaxNameLen        = 100
	MaxEmailLen       = 254
	MaxMessageLen     = 5000
)

var reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return len(s) <= MaxEmailLen && reEmail.MatchString(s)
}

// ResolvableURL reports whether raw can be used as the src/href of a photo or
// document: an absolute http(s) URL with a host, or a site-relative path.
func ResolvableURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > MaxURLLen {
		return false
	}
	if strings.HasPrefix(raw, "/") {
		return !strings.HasPrefix(raw, "//")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	default:
		return false
	}
}

// TooLong reports whether s exceeds max characters.
func TooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// Sanitize trims s and strips angle brackets, the same cleanup the public
// contact form applies before storing free text.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

// ContactErrors returns the form fields of m that fail validation, keyed by
// field name. An empty map means the message can be stored.
func ContactErrors(m ContactMessage) map[string]string {
	errs := make(map[string]string)
	switch {
	case strings.TrimSpace(m.Name) == "":
		errs["name"] = "Il nome è obbligatorio"
	case TooLong(m.Name, MaxNameLen):
		errs["name"] = "Il nome è troppo lungo"
	}
	if !ValidEmail(strings.TrimSpace(m.Email)) {
		errs["email"] = "Indirizzo email non valido"
	}
	switch {
	case strings.TrimSpace(m.Message) == "":
		errs["message"] = "Il messaggio è obbligatorio"
	case TooLong(m.Message, MaxMessageLen):
		errs["message"] = "Il messaggio è troppo lungo"
	}
	return errs
}
