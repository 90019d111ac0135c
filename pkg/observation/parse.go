// Package observation extracts the latest "TimeStep N: Time T" record from a
// solver log and parses it.
package observation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DeBrosOfficial/simwatch/pkg/errors"
)

// Marker is the token every progress line of a solver log contains.
const Marker = "TimeStep"

var (
	// linePattern locates the two fields; the number grammar is checked
	// separately so malformed numbers are parse errors, not mismatches.
	linePattern = regexp.MustCompile(`TimeStep[ \t]+([^\s:]+): Time[ \t]+(\S+)`)

	stepPattern = regexp.MustCompile(`^\d+$`)
	// timePattern matches a prefix: trailing punctuation or units after the
	// number are ignored.
	timePattern = regexp.MustCompile(`^\d+\.\d+e[+-]?\d+`)
)

// Observation is one progress record of a simulation.
type Observation struct {
	Step uint64
	Time float64
	Line string
}

// Parse extracts step and simulated time from a log line such as
//
//	TimeStep   42: Time   1.2345e+02
//
// It returns a PatternMismatchError when the line has no step/time record and
// a ParseError when the record holds malformed numbers.
func Parse(line string) (Observation, error) {
	line = strings.TrimRight(line, "\r\n")

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Observation{}, errors.NewPatternMismatchError("", line)
	}

	stepText, timeText := m[1], m[2]
	if !stepPattern.MatchString(stepText) {
		return Observation{}, errors.NewParseError("step", stepText, nil)
	}
	step, err := strconv.ParseUint(stepText, 10, 64)
	if err != nil {
		return Observation{}, errors.NewParseError("step", stepText, err)
	}

	number := timePattern.FindString(timeText)
	if number == "" {
		return Observation{}, errors.NewParseError("time", timeText, nil)
	}
	simTime, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Observation{}, errors.NewParseError("time", timeText, err)
	}

	return Observation{Step: step, Time: simTime, Line: line}, nil
}
