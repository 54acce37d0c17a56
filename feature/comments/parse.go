package comments

import (
	"encoding/base64"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// UnknownCommenter is used when the subject does not name the commenter.
const UnknownCommenter = "Unknown"

// fallbackLimit caps the comment text when the body layout is not recognised.
const fallbackLimit = 500

var (
	forwardPrefix  = regexp.MustCompile(`(?i)^(Fwd:\s*)+`)
	quotedFile     = regexp.MustCompile(`commented on ["']([^"']+)["']`)
	unquotedFile   = regexp.MustCompile(`commented on (.+)$`)
	commenterName  = regexp.MustCompile(`^(.+?) commented on`)
	commentDate    = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	replyToEOL     = regexp.MustCompile(`(?m)Reply.*?$`)
	forwardHeaders = []string{"From:", "Subject:", "Date:", "To:"}
)

// ParseSubject extracts the commented file name and the commenter from a
// notification subject. ok is false when no file name can be found.
func ParseSubject(subject string) (fileName, commenter string, ok bool) {
	clean := forwardPrefix.ReplaceAllString(subject, "")

	m := quotedFile.FindStringSubmatch(clean)
	if m == nil {
		m = unquotedFile.FindStringSubmatch(clean)
	}
	if m == nil {
		return "", "", false
	}
	fileName = strings.TrimSpace(m[1])

	commenter = UnknownCommenter
	if c := commenterName.FindStringSubmatch(clean); c != nil {
		commenter = c[1]
	}
	return fileName, commenter, true
}

// ExtractCommentText pulls the comment out of a notification body.
func ExtractCommentText(body string) string {
	skipHeaders := strings.Contains(body, "Begin forwarded message:") ||
		strings.Contains(prefixRunes(body, 200), "Fwd:")

	var lines []string
	found := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if skipHeaders {
			if strings.HasPrefix(trimmed, "Message-Id:") || strings.HasPrefix(trimmed, "Message-ID:") {
				skipHeaders = false
				continue
			}
			if hasAnyPrefix(trimmed, forwardHeaders) {
				continue
			}
		}

		if strings.Contains(trimmed, "Begin forwarded message") {
			continue
		}

		// Dropbox prints the comment date ("March 1") right above the comment.
		if commentDate.MatchString(trimmed) {
			found = true
			continue
		}

		if found {
			lower := strings.ToLower(trimmed)
			if strings.Contains(lower, "dropbox.com") || strings.Contains(lower, "reply") {
				break
			}
			lines = append(lines, trimmed)
		}
	}

	if len(lines) > 0 {
		return strings.TrimSpace(strings.Join(lines, "\n"))
	}

	cleaned := urlPattern.ReplaceAllString(body, "")
	cleaned = replyToEOL.ReplaceAllString(cleaned, "")
	return prefixRunes(strings.TrimSpace(cleaned), fallbackLimit)
}

// HTMLToText flattens an HTML body to text. Script and style contents are
// dropped and every tag becomes a single space.
func HTMLToText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isRawTextTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.WriteString(strings.ReplaceAll(string(z.Text()), "\u00a0", " "))
			}
		}
	}
}

// DecodeBody decodes a base64url message part, with or without padding.
func DecodeBody(data string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func isRawTextTag(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func prefixRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
