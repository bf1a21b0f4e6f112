// Package extract pulls a single execution time out of a loosely structured
// benchmark result file.
package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Method names the strategy that produced a result's candidates.
type Method string

const (
	None     Method = "none"
	Header   Method = "header"   // "Tiempo de ejecución: X segundos" near the top
	Keyword  Method = "keyword"  // first number on lines mentioning time
	Trailing Method = "trailing" // bare numbers on the last lines
	Pattern  Method = "pattern"  // secondary unit/label regexes
)

const (
	headerLines   = 10
	trailingLines = 5
)

var headerPattern = regexp.MustCompile(`(?i)Tiempo de ejecuci[óo]n:\s*(\d+\.\d+)\s*segundos`)

var keywords = []string{"tiempo", "time", "duration", "execution", "seg", "sec", "segundos", "seconds"}

// Applied in order to the lower-cased content; every match of every pattern counts.
var secondaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+\.?\d*)\s*segundos`),
	regexp.MustCompile(`(\d+\.?\d*)\s*s\b`),
	regexp.MustCompile(`(\d+\.?\d*)\s*sec`),
	regexp.MustCompile(`tiempo:?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`time:?\s*(\d+\.?\d*)`),
}

// wordTrim is stripped from both ends of a word before it is checked for a number.
const wordTrim = `,:;()[]{}"'`

// Result is the outcome of Parse.
type Result struct {
	Seconds    float64
	Candidates []float64
	Method     Method
}

// Found reports whether any candidate time was extracted.
func (r Result) Found() bool {
	return len(r.Candidates) > 0
}

// Parse runs the strategies in priority order and stops at the first one that
// yields candidates. A single candidate is used as is; several are reduced to
// their median.
func Parse(content string) Result {
	lines := strings.Split(content, "\n")

	strategies := []struct {
		method Method
		find   func() []float64
	}{
		{Header, func() []float64 { return fromHeader(lines) }},
		{Keyword, func() []float64 { return fromKeywords(lines) }},
		{Trailing, func() []float64 { return fromTrailing(content) }},
		{Pattern, func() []float64 { return fromPatterns(content) }},
	}

	for _, s := range strategies {
		values := s.find()
		if len(values) == 0 {
			continue
		}
		seconds := values[0]
		if len(values) > 1 {
			seconds = Median(values)
		}
		return Result{Seconds: seconds, Candidates: values, Method: s.method}
	}
	return Result{Method: None}
}

func fromHeader(lines []string) []float64 {
	for _, line := range lines[:min(len(lines), headerLines)] {
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return []float64{v}
		}
	}
	return nil
}

func fromKeywords(lines []string) []float64 {
	var values []float64
	for _, line := range lines {
		if !mentionsTime(strings.ToLower(line)) {
			continue
		}
		if v, ok := firstNumber(line); ok {
			values = append(values, v)
		}
	}
	return values
}

func mentionsTime(lower string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// firstNumber returns the first whitespace-separated word of line that is a
// plain decimal number once surrounding punctuation is removed.
func firstNumber(line string) (float64, bool) {
	for _, word := range strings.Fields(line) {
		clean := strings.Trim(word, wordTrim)
		if !isDecimal(clean) {
			continue
		}
		if v, err := strconv.ParseFloat(clean, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// isDecimal accepts ASCII digits with at most one dot anywhere, e.g. "12", "1.5", "3.", ".5".
func isDecimal(s string) bool {
	digits := strings.Replace(s, ".", "", 1)
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func fromTrailing(content string) []float64 {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	var values []float64
	for _, line := range lines[max(0, len(lines)-trailingLines):] {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "0123456789.,+-") != "" {
			continue
		}
		if v, err := strconv.ParseFloat(strings.ReplaceAll(line, ",", "."), 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

func fromPatterns(content string) []float64 {
	lower := strings.ToLower(content)
	var values []float64
	for _, re := range secondaryPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				values = append(values, v)
			}
		}
	}
	return values
}

// Median returns the middle value of values, averaging the two middle values
// when the count is even. It returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
