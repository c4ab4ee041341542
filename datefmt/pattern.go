package datefmt

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPattern = errors.New("invalid date pattern")

// PatternError describes where a pattern failed to compile.
type PatternError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *PatternError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %q at %d: %s", ErrInvalidPattern.Error(), e.Pattern, e.Pos, e.Msg)
}

func (e *PatternError) Unwrap() error { return ErrInvalidPattern }

type token struct {
	// letter is 0 for literal text
	letter  rune
	count   int
	literal string
}

const fieldLetters = "GyYMLwWDdFEuaHkKhmsSzZX"

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// compile splits a pattern into field and literal tokens.
func compile(pattern string) ([]token, error) {
	var (
		tokens []token
		lit    strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			// '' outside quotes is a single quote
			if i+1 < len(runes) && runes[i+1] == '\'' {
				lit.WriteRune('\'')
				i += 2
				continue
			}
			start := i
			i++
			closed := false
			for i < len(runes) {
				if runes[i] == '\'' {
					if i+1 < len(runes) && runes[i+1] == '\'' {
						lit.WriteRune('\'')
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				lit.WriteRune(runes[i])
				i++
			}
			if !closed {
				return nil, &PatternError{Pattern: pattern, Pos: start, Msg: "unterminated quote"}
			}
		case isASCIILetter(r):
			if !strings.ContainsRune(fieldLetters, r) {
				return nil, &PatternError{Pattern: pattern, Pos: i, Msg: fmt.Sprintf("illegal pattern character %q", r)}
			}
			n := 1
			for i+n < len(runes) && runes[i+n] == r {
				n++
			}
			if r == 'X' && n > 3 {
				return nil, &PatternError{Pattern: pattern, Pos: i, Msg: "too many pattern letters: X"}
			}
			flush()
			tokens = append(tokens, token{letter: r, count: n})
			i += n
		default:
			lit.WriteRune(r)
			i++
		}
	}
	flush()
	return tokens, nil
}

// mustCompile is for patterns fixed at build time.
func mustCompile(pattern string) []token {
	tokens, err := compile(pattern)
	if err != nil {
		panic(err)
	}
	return tokens
}
