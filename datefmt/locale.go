package datefmt

import (
	"os"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/ko"
	"github.com/go-playground/locales/zh"
	"golang.org/x/text/language"
)

// English is first so that it is the fallback when nothing matches.
var supportedLocales = []struct {
	tag language.Tag
	new func() locales.Translator
}{
	{language.English, en.New},
	{language.Chinese, zh.New},
	{language.German, de.New},
	{language.Spanish, es.New},
	{language.French, fr.New},
	{language.Japanese, ja.New},
	{language.Korean, ko.New},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// MatchLocale returns the closest supported locale for a BCP 47 or POSIX
// style tag ("de-AT", "zh_CN.UTF-8"). Unknown languages fall back to English.
func MatchLocale(tag string) (locales.Translator, error) {
	normalized := normalizeLocaleTag(tag)
	if normalized == "" {
		return en.New(), nil
	}
	t, err := language.Parse(normalized)
	if err != nil {
		return nil, err
	}
	_, i, _ := localeMatcher.Match(t)
	return supportedLocales[i].new(), nil
}

// AmbientLocale reads the process locale from the environment.
func AmbientLocale() locales.Translator {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if l, err := MatchLocale(v); err == nil {
			return l
		}
	}
	return en.New()
}

func normalizeLocaleTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	if tag == "C" || tag == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(tag, "_", "-")
}
