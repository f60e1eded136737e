package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var mentionRe = regexp.MustCompile(`@([a-zA-Z][a-zA-Z0-9]*(?:[-_.][a-zA-Z0-9]+)*)`)

// ExtractMentions returns mentioned usernames without the @ prefix. A
// mention must not be glued to a preceding word character, so email
// addresses do not count.
func ExtractMentions(body string) []string {
	matches := mentionRe.FindAllStringSubmatchIndex(body, -1)
	seen := map[string]struct{}{}
	mentions := make([]string, 0, len(matches))

	for _, match := range matches {
		start := match[0]
		if start > 0 {
			prev, _ := utf8.DecodeLastRuneInString(body[:start])
			if isAlphaNum(prev) {
				continue
			}
		}
		name := strings.ToLower(body[match[2]:match[3]])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		mentions = append(mentions, name)
	}
	return mentions
}

// MentionsUser reports whether body mentions the given username or @all.
func MentionsUser(body, username string) bool {
	username = strings.ToLower(username)
	for _, m := range ExtractMentions(body) {
		if m == username || m == "all" {
			return true
		}
	}
	return false
}

func isAlphaNum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
