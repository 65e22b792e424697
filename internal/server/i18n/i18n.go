// Package i18n resolves the caller's language and translates the portal's
// public messages. English strings are the message keys; French is the only
// other catalog.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to force a language.
const LangParam = "lang"

var supportedTags = []language.Tag{
	language.English,
	language.French,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Translate returns msg in tag's language, or msg itself when the catalog
// has no entry for it. Messages containing verbs are returned verbatim.
func Translate(tag language.Tag, msg string) string {
	if strings.Contains(msg, "%") {
		return msg
	}
	return Printer(tag).Sprintf(msg)
}

// ResolveTag picks the language for r from the lang query parameter, then
// Accept-Language, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}

	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, ok := match(v); ok {
			return tag
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return supportedTags[idx]
			}
		}
	}

	return Default()
}

func match(value string) (language.Tag, bool) {
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	_, idx, conf := tagMatcher.Match(parsed)
	if conf == language.No {
		return language.Tag{}, false
	}
	return supportedTags[idx], true
}
