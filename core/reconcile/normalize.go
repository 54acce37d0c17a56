package reconcile

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	versionSuffixRe = regexp.MustCompile(`(?:[_\-\s]+)?v(?:ersion)?\s*\d+$`)
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)

	lower = cases.Lower(language.Und)
)

// Normalize reduces a free-form file name or row title to a comparable key.
//
// Steps, in order: lower-case and trim, strip a trailing extension, drop the
// "Artist_" prefix (everything up to and including the first underscore),
// strip a trailing version suffix such as "_v2" or " version 3", collapse
// non-alphanumeric runs to a single space, trim.
//
// The artist-prefix rule is applied to every name containing an underscore,
// so "midnight_drive_master.wav" becomes "drive master".
func Normalize(raw string) string {
	base := strings.TrimSpace(lower.String(raw))
	base = stripExtension(base)

	if _, rest, ok := strings.Cut(base, "_"); ok {
		base = rest
	}

	base = versionSuffixRe.ReplaceAllString(base, "")
	base = nonAlnumRe.ReplaceAllString(base, " ")
	base = whitespaceRe.ReplaceAllString(base, " ")
	return strings.TrimSpace(base)
}

// stripExtension removes the last ".ext" of the final path element.
// Leading dots do not start an extension, so ".hidden" is kept whole.
func stripExtension(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name
	}
	sep := strings.LastIndexAny(name, `/\`)
	if dot < sep {
		return name
	}
	if strings.TrimLeft(name[sep+1:dot], ".") == "" {
		return name
	}
	return name[:dot]
}
