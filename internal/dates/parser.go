package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ExampleFormats lists accepted expressions, quoted back on parse failures.
var ExampleFormats = []string{
	"2025-07-04",
	"07/04/2025",
	"4th July 2025",
	"July 4, 2025",
	"tomorrow",
	"next month",
	"in 30 days",
}

// ParseError reports an expression matching no recognized format.
type ParseError struct {
	Input    string
	Examples []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized date %q, try formats like: %s", e.Input, strings.Join(e.Examples, ", "))
}

// ValidityError reports a recognized expression whose components do not form
// a real calendar date, such as April 31.
type ValidityError struct {
	Input string
	Year  int
	Month time.Month
	Day   int
}

func (e *ValidityError) Error() string {
	return fmt.Sprintf("%q is not a real calendar date", e.Input)
}

// Parser interprets free-form date expressions against an injected reference
// time. Parsing is pure: the same input and reference time always yield the
// same result.
type Parser struct {
	matchers []matcher
}

// matcher attempts one expression family. A false match falls through to the
// next family; an error means the family claimed the input and found it bad.
type matcher func(text string, now time.Time) (Date, bool, error)

// NewParser builds the interpreter. Families are tried in fixed priority
// order: numeric forms, month-name forms, relative keywords, relative
// quantities. First match wins.
func NewParser() *Parser {
	return &Parser{matchers: []matcher{
		matchNumeric,
		matchMonthName,
		matchRelativeKeyword,
		matchRelativeQuantity,
	}}
}

// Parse resolves input to a calendar date.
func (p *Parser) Parse(input string, now time.Time) (Date, error) {
	text := normalize(input)
	if text == "" {
		return Date{}, &ParseError{Input: input, Examples: ExampleFormats}
	}
	for _, m := range p.matchers {
		d, ok, err := m(text, now)
		if err != nil {
			var ve *ValidityError
			if errors.As(err, &ve) {
				ve.Input = strings.TrimSpace(input)
			}
			return Date{}, err
		}
		if ok {
			return d, nil
		}
	}
	return Date{}, &ParseError{Input: strings.TrimSpace(input), Examples: ExampleFormats}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var (
	isoPattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	numericPattern = regexp.MustCompile(`^(\d{1,2})([/.-])(\d{1,2})([/.-])(\d{4})$`)
)

func matchNumeric(text string, _ time.Time) (Date, bool, error) {
	if m := isoPattern.FindStringSubmatch(text); m != nil {
		return claim(text, atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
	}
	m := numericPattern.FindStringSubmatch(text)
	if m == nil || m[2] != m[4] {
		return Date{}, false, nil
	}
	a, b, year := atoi(m[1]), atoi(m[3]), atoi(m[5])
	var month, day int
	switch {
	case a > 12:
		// a component above twelve can only be a day
		day, month = a, b
	case b > 12:
		month, day = a, b
	case m[2] == "/":
		// slash form reads month-first, dash and dot read day-first
		month, day = a, b
	default:
		day, month = a, b
	}
	return claim(text, year, time.Month(month), day)
}

var monthNames = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var (
	dayFirstNamePattern   = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+),?\s+(\d{4})$`)
	monthFirstNamePattern = regexp.MustCompile(`^([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})$`)
)

func matchMonthName(text string, _ time.Time) (Date, bool, error) {
	if m := dayFirstNamePattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[m[2]]; ok {
			return claim(text, atoi(m[3]), month, atoi(m[1]))
		}
	}
	if m := monthFirstNamePattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthNames[m[1]]; ok {
			return claim(text, atoi(m[3]), month, atoi(m[2]))
		}
	}
	return Date{}, false, nil
}

func matchRelativeKeyword(text string, now time.Time) (Date, bool, error) {
	today := FromTime(now)
	switch text {
	case "today":
		return today, true, nil
	case "tomorrow":
		return today.AddDays(1), true, nil
	case "yesterday":
		return today.AddDays(-1), true, nil
	case "next week":
		return today.AddDays(7), true, nil
	case "next month":
		return today.AddMonths(1), true, nil
	case "next year":
		return today.AddYears(1), true, nil
	}
	return Date{}, false, nil
}

var (
	inQuantityPattern = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)
	fromNowPattern    = regexp.MustCompile(`^(\d+) (day|days|week|weeks|month|months) from (?:now|today)$`)
)

func matchRelativeQuantity(text string, now time.Time) (Date, bool, error) {
	m := inQuantityPattern.FindStringSubmatch(text)
	if m == nil {
		m = fromNowPattern.FindStringSubmatch(text)
	}
	if m == nil {
		return Date{}, false, nil
	}
	n := atoi(m[1])
	if n < 1 {
		return Date{}, false, nil
	}
	today := FromTime(now)
	switch strings.TrimSuffix(m[2], "s") {
	case "day":
		return today.AddDays(n), true, nil
	case "week":
		return today.AddDays(7 * n), true, nil
	default:
		return today.AddMonths(n), true, nil
	}
}

func claim(text string, year int, month time.Month, day int) (Date, bool, error) {
	d, err := New(year, month, day)
	if err != nil {
		return Date{}, true, &ValidityError{Input: text, Year: year, Month: month, Day: day}
	}
	return d, true, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
