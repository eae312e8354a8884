package emissions

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultExcludePattern matches aggregate pseudo-countries by name.
	DefaultExcludePattern = "World|International"
)

// DefaultExcludeISOCodes are the OWID aggregate codes left out of rankings.
var DefaultExcludeISOCodes = []string{"OWID_WRL", "OWID_KOS"}

// Exclusions decides which rows are aggregates rather than countries.
type Exclusions struct {
	pattern  *regexp.Regexp
	isoCodes map[string]bool
}

// NewExclusions compiles pattern as a case-insensitive regular expression matched
// anywhere in a country name. An empty pattern matches nothing.
func NewExclusions(pattern string, isoCodes []string) (*Exclusions, error) {
	ex := &Exclusions{isoCodes: make(map[string]bool, len(isoCodes))}
	if pattern != "" {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		ex.pattern = re
	}
	for _, code := range isoCodes {
		if code = strings.TrimSpace(code); code != "" {
			ex.isoCodes[code] = true
		}
	}
	return ex, nil
}

// DefaultExclusions returns the World/International and OWID aggregate exclusions.
func DefaultExclusions() *Exclusions {
	ex, err := NewExclusions(DefaultExcludePattern, DefaultExcludeISOCodes)
	if err != nil {
		panic(err)
	}
	return ex
}

// Country reports whether the named row is an aggregate.
func (e *Exclusions) Country(name string) bool {
	return e.pattern != nil && e.pattern.MatchString(name)
}

// ISOCode reports whether code is an excluded aggregate code.
func (e *Exclusions) ISOCode(code string) bool {
	return e.isoCodes[code]
}

// Pattern returns the name pattern as configured, without the case flag.
func (e *Exclusions) Pattern() string {
	if e.pattern == nil {
		return ""
	}
	return strings.TrimPrefix(e.pattern.String(), "(?i)")
}

// ISOCodes returns the excluded codes in no particular order.
func (e *Exclusions) ISOCodes() []string {
	codes := make([]string, 0, len(e.isoCodes))
	for code := range e.isoCodes {
		codes = append(codes, code)
	}
	return codes
}
