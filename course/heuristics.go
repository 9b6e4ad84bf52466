package course

import (
	"regexp"
	"strconv"
	"strings"
)

// Answer is the result of a yes/no text heuristic. The heuristics in this
// file are narrowly scoped pattern matches over free text; when the text
// gives no clear signal they return Unknown rather than guessing.
type Answer int

const (
	Unknown Answer = iota
	Yes
	No
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// DetectYesNo reads a yes/no intent from a free-text answer. It checks for
// leading affirmation/negation words only; longer answers that bury the
// intent mid-sentence come back Unknown.
func DetectYesNo(text string) Answer {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Trim(t, ".,!")

	switch t {
	case "yes", "y", "yeah", "yep", "sure", "true":
		return Yes
	case "no", "n", "nope", "none", "false":
		return No
	}
	if strings.HasPrefix(t, "yes,") || strings.HasPrefix(t, "yes ") {
		return Yes
	}
	if strings.HasPrefix(t, "no,") || strings.HasPrefix(t, "no ") {
		return No
	}
	return Unknown
}

var assessmentLine = regexp.MustCompile(`(?i)^.*\b(graded|final)\s+assessment\b.*$`)

// WantsAssessment reports whether the context summary indicates a graded
// final assessment was requested. It scans summary lines that mention a
// graded or final assessment and reads the yes/no signal on that line.
// Returns Unknown when the summary never mentions one.
func WantsAssessment(summary string) Answer {
	for _, line := range strings.Split(summary, "\n") {
		if !assessmentLine.MatchString(line) {
			continue
		}
		l := strings.ToLower(line)
		switch {
		case strings.Contains(l, "yes"), strings.Contains(l, "required"), strings.Contains(l, "needed"):
			return Yes
		case strings.Contains(l, "no "), strings.HasSuffix(strings.TrimSpace(l), "no"),
			strings.Contains(l, "not required"), strings.Contains(l, "not needed"), strings.Contains(l, "none"):
			return No
		}
	}
	return Unknown
}

var questionCountPattern = regexp.MustCompile(`(\d+)\s*(questions|mcqs|multiple choice)`)

// ExtractQuestionCount pulls an explicit assessment question count out of
// the summary ("10 questions", "5 MCQs"). Returns 0 when none is stated.
func ExtractQuestionCount(summary string) int {
	match := questionCountPattern.FindStringSubmatch(strings.ToLower(summary))
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

var durationPattern = regexp.MustCompile(`duration\s*[:\-]\s*(\d+)\s*(minutes|min|hours|hrs)`)

// ExtractDurationMinutes pulls the stated course duration out of the
// summary, normalized to minutes. Returns 0 when no duration is stated.
func ExtractDurationMinutes(summary string) int {
	match := durationPattern.FindStringSubmatch(strings.ToLower(summary))
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	if strings.HasPrefix(match[2], "h") {
		n *= 60
	}
	return n
}

// Breakpoint maps a duration ceiling to a question count for
// EstimateQuestionCount. Breakpoints must be sorted by MaxMinutes with
// non-decreasing Questions to keep the estimate monotonic.
type Breakpoint struct {
	MaxMinutes int
	Questions  int
}

// EstimateQuestionCount estimates the assessment question count from the
// course duration. With no breakpoints it uses one question per ten
// minutes, minimum one. With breakpoints it is a step function: the first
// breakpoint whose ceiling covers the duration wins, and durations past
// the last ceiling use the last breakpoint's count.
func EstimateQuestionCount(durationMinutes int, breakpoints []Breakpoint) int {
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	if len(breakpoints) == 0 {
		n := durationMinutes / 10
		if n < 1 {
			n = 1
		}
		return n
	}
	for _, bp := range breakpoints {
		if durationMinutes <= bp.MaxMinutes {
			return bp.Questions
		}
	}
	return breakpoints[len(breakpoints)-1].Questions
}
