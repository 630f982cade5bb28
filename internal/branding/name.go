package branding

import (
	"strings"
	"unicode/utf8"

	"github.com/brandgen/brandgen-go/internal/model"
)

const namePrefix = "The "

// BuildName renders the display name for a branding request. It never fails;
// missing fields just leave gaps.
func BuildName(req model.BrandRequest) string {
	prefix := ""
	if req.Prefix {
		prefix = namePrefix
	}

	switch req.NameMode {
	case model.NameModeAbbreviated:
		if req.FirstName != "" && req.LastName != "" {
			return prefix + firstRune(req.FirstName) + firstRune(req.LastName)
		}
	case model.NameModeFirstOnly:
		return prefix + req.FirstName
	case model.NameModeLastOnly:
		return prefix + req.LastName
	}

	parts := make([]string, 0, 2)
	for _, p := range []string{req.FirstName, req.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return prefix + strings.Join(parts, " ")
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s[:size]
	}
	return string(r)
}
