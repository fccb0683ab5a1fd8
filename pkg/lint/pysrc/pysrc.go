// Package pysrc scans Python source snippets for structural breakage:
// unbalanced brackets and unterminated string literals. It is not a Python
// parser; it catches the damage that typically survives copy-editing of
// example code, which is what a corpus linter needs to find.
package pysrc

import (
	"fmt"
	"strings"
)

// Issue is a structural problem found in a snippet.
type Issue struct {
	Line    int // 1-based line within the snippet
	Message string
}

type bracket struct {
	char byte
	line int
}

var closers = map[byte]byte{')': '(', ']': '[', '}': '{'}

// Scan checks a Python snippet and returns any structural issues.
func Scan(src string) []Issue {
	var issues []Issue
	var stack []bracket

	line := 1

	// String state. quote is 0 outside strings; tripleQuote marks ''' or """
	// literals, which may span lines.
	var quote byte
	var tripleQuote bool
	var stringLine int

	i := 0
	for i < len(src) {
		c := src[i]

		if quote != 0 {
			switch {
			case c == '\\' && !tripleQuote:
				i += 2
				continue
			case c == '\\' && tripleQuote:
				i += 2
				if i-1 < len(src) && src[i-1] == '\n' {
					line++
				}
				continue
			case c == '\n':
				if !tripleQuote {
					issues = append(issues, Issue{
						Line:    stringLine,
						Message: "unterminated string literal",
					})
					quote = 0
				}
				line++
			case c == quote:
				if tripleQuote {
					if strings.HasPrefix(src[i:], strings.Repeat(string(quote), 3)) {
						quote = 0
						tripleQuote = false
						i += 3
						continue
					}
				} else {
					quote = 0
				}
			}
			i++
			continue
		}

		switch c {
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case '\n':
			line++
		case '\'', '"':
			quote = c
			stringLine = line
			if strings.HasPrefix(src[i:], strings.Repeat(string(c), 3)) {
				tripleQuote = true
				i += 3
				continue
			}
		case '(', '[', '{':
			stack = append(stack, bracket{char: c, line: line})
		case ')', ']', '}':
			if len(stack) == 0 {
				issues = append(issues, Issue{
					Line:    line,
					Message: fmt.Sprintf("unmatched closing '%c'", c),
				})
				break
			}
			top := stack[len(stack)-1]
			if top.char != closers[c] {
				issues = append(issues, Issue{
					Line:    line,
					Message: fmt.Sprintf("mismatched '%c' closes '%c' opened on line %d", c, top.char, top.line),
				})
			}
			stack = stack[:len(stack)-1]
		}
		i++
	}

	if quote != 0 {
		issues = append(issues, Issue{
			Line:    stringLine,
			Message: "unterminated string literal",
		})
	}

	for _, b := range stack {
		issues = append(issues, Issue{
			Line:    b.line,
			Message: fmt.Sprintf("unclosed '%c'", b.char),
		})
	}

	return issues
}
