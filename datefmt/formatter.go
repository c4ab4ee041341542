package datefmt

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/locales"
)

// DefaultPattern is used whenever no pattern is given. 24-hour clock.
const DefaultPattern = "yyyy-MM-dd HH:mm:ss"

var defaultTokens = mustCompile(DefaultPattern)

type Formatter struct {
	clock  func() time.Time
	locale locales.Translator
}

type Option func(*Formatter)

func WithClock(clock func() time.Time) Option {
	return func(f *Formatter) {
		f.clock = clock
	}
}

func WithLocale(l locales.Translator) Option {
	return func(f *Formatter) {
		f.locale = l
	}
}

// WithLocaleTag selects the closest supported locale for tag. Tags that do not
// parse leave the locale unchanged.
func WithLocaleTag(tag string) Option {
	return func(f *Formatter) {
		if l, err := MatchLocale(tag); err == nil {
			f.locale = l
		}
	}
}

// New returns a Formatter. Without options it reads time.Now and AmbientLocale.
func New(opts ...Option) Formatter {
	f := Formatter{clock: time.Now}
	for _, opt := range opts {
		opt(&f)
	}
	if f.locale == nil {
		f.locale = AmbientLocale()
	}
	if f.clock == nil {
		f.clock = time.Now
	}
	return f
}

// Locale returns the locale name, e.g. "en".
func (f Formatter) Locale() string {
	return f.locale.Locale()
}

// Now reads the formatter's clock.
func (f Formatter) Now() time.Time {
	return f.clock()
}

// FormatNow renders the clock's current instant with DefaultPattern.
func (f Formatter) FormatNow() string {
	return f.Format(f.clock())
}

// Format renders t with DefaultPattern.
func (f Formatter) Format(t time.Time) string {
	return f.render(t, defaultTokens)
}

// FormatPattern renders t with pattern. A malformed pattern returns an error
// wrapping ErrInvalidPattern.
func (f Formatter) FormatPattern(t time.Time, pattern string) (string, error) {
	tokens, err := compile(pattern)
	if err != nil {
		return "", err
	}
	return f.render(t, tokens), nil
}

func (f Formatter) render(t time.Time, tokens []token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.letter == 0 {
			b.WriteString(tok.literal)
			continue
		}
		f.writeField(&b, t, tok)
	}
	return b.String()
}

func (f Formatter) writeField(b *strings.Builder, t time.Time, tok token) {
	switch tok.letter {
	case 'G':
		b.WriteString(pickName(t.Year() > 0, tok.count, f.locale.ErasAbbreviated(), f.locale.ErasWide(), "BC", "AD"))
	case 'y':
		writeYear(b, t.Year(), tok.count)
	case 'Y':
		year, _ := t.ISOWeek()
		writeYear(b, year, tok.count)
	case 'M', 'L':
		switch {
		case tok.count >= 4:
			b.WriteString(f.locale.MonthWide(t.Month()))
		case tok.count == 3:
			b.WriteString(f.locale.MonthAbbreviated(t.Month()))
		default:
			writePadded(b, int(t.Month()), tok.count)
		}
	case 'w':
		_, week := t.ISOWeek()
		writePadded(b, week, tok.count)
	case 'W':
		writePadded(b, weekOfMonth(t), tok.count)
	case 'D':
		writePadded(b, t.YearDay(), tok.count)
	case 'd':
		writePadded(b, t.Day(), tok.count)
	case 'F':
		writePadded(b, (t.Day()-1)/7+1, tok.count)
	case 'E':
		if tok.count >= 4 {
			b.WriteString(f.locale.WeekdayWide(t.Weekday()))
		} else {
			b.WriteString(f.locale.WeekdayAbbreviated(t.Weekday()))
		}
	case 'u':
		writePadded(b, isoWeekday(t), tok.count)
	case 'a':
		period := pickName(t.Hour() >= 12, tok.count, f.locale.PeriodsAbbreviated(), nil, "AM", "PM")
		// latin markers render upper case, e.g. "PM"
		if isLatin(period) {
			period = strings.ToUpper(period)
		}
		b.WriteString(period)
	case 'H':
		writePadded(b, t.Hour(), tok.count)
	case 'k':
		h := t.Hour()
		if h == 0 {
			h = 24
		}
		writePadded(b, h, tok.count)
	case 'K':
		writePadded(b, t.Hour()%12, tok.count)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		writePadded(b, h, tok.count)
	case 'm':
		writePadded(b, t.Minute(), tok.count)
	case 's':
		writePadded(b, t.Second(), tok.count)
	case 'S':
		writePadded(b, t.Nanosecond()/int(time.Millisecond), tok.count)
	case 'z':
		b.WriteString(t.Format("MST"))
	case 'Z':
		b.WriteString(t.Format("-0700"))
	case 'X':
		b.WriteString(t.Format(isoOffsetLayouts[tok.count-1]))
	}
}

// X, XX and XXX; UTC renders as "Z"
var isoOffsetLayouts = [...]string{"Z07", "Z0700", "Z07:00"}

func writeYear(b *strings.Builder, year, count int) {
	if count == 2 {
		writePadded(b, year%100, 2)
		return
	}
	writePadded(b, year, count)
}

// pickName returns index 1 of the locale names when second is true, index 0
// otherwise. Wide names are used for four or more letters when the locale has them.
func pickName(second bool, count int, abbreviated, wide []string, first, other string) string {
	names := abbreviated
	if count >= 4 && len(wide) >= 2 {
		names = wide
	}
	var s string
	switch {
	case len(names) < 2 && second:
		s = other
	case len(names) < 2:
		s = first
	case second:
		s = names[1]
	default:
		s = names[0]
	}
	return s
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxLatin1 {
			return false
		}
	}
	return true
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// weekOfMonth uses ISO rules: weeks start on Monday and a leading partial
// week counts as week 1 only when it has at least four days.
func weekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := isoWeekday(first) - 1
	week := (t.Day()+offset-1)/7 + 1
	if 7-offset < 4 {
		week--
	}
	return week
}

func writePadded(b *strings.Builder, n, width int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// FormatNow renders the current time with DefaultPattern and the process locale.
func FormatNow() string {
	return New().FormatNow()
}

// Format renders t with DefaultPattern and the process locale.
func Format(t time.Time) string {
	return New().Format(t)
}

// FormatPattern renders t with pattern and the process locale.
func FormatPattern(t time.Time, pattern string) (string, error) {
	return New().FormatPattern(t, pattern)
}
