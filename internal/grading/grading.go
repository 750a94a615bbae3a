// Package grading computes the derived scoring fields of an assignment submission:
// lateness, days late, late penalty and final score. Every function is pure.
package grading

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

var (
	// ErrLateNotAllowed is returned when a late submission meets an assignment that forbids lateness.
	ErrLateNotAllowed = errors.New("late submission not allowed")
	// ErrScoreOutOfRange is returned when a manual score falls outside [0, max points].
	ErrScoreOutOfRange = errors.New("score out of range")
)

// LatePolicy decides what happens to late submissions on assignments that disallow lateness.
type LatePolicy string

const (
	// LatePolicyReject refuses the submission outright.
	LatePolicyReject LatePolicy = "reject"
	// LatePolicyFlag accepts the submission, flags it late and penalises it at grading time.
	LatePolicyFlag LatePolicy = "flag"
)

// ParseLatePolicy converts configuration input into a LatePolicy.
func ParseLatePolicy(value string) (LatePolicy, error) {
	switch LatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", LatePolicyReject:
		return LatePolicyReject, nil
	case LatePolicyFlag:
		return LatePolicyFlag, nil
	default:
		return "", fmt.Errorf("unknown late policy %q", value)
	}
}

// Rules is the late policy configuration of one assignment.
type Rules struct {
	MaxPoints             float64
	DueDate               time.Time
	LateSubmissionAllowed bool
	LatePenaltyPercent    float64
}

// Lateness describes how late a submission arrived.
type Lateness struct {
	IsLate   bool
	DaysLate int
}

// Penalty is the outcome of applying a late penalty to a raw score.
type Penalty struct {
	Applied       float64
	AdjustedScore float64
}

// Result carries every derived field written back onto a graded submission.
type Result struct {
	Lateness
	ManualScore    float64
	PenaltyApplied float64
	FinalScore     float64
}

// EvaluateLateness reports whether submittedAt is after dueDate and by how many started days.
func EvaluateLateness(submittedAt, dueDate time.Time) Lateness {
	if !submittedAt.After(dueDate) {
		return Lateness{}
	}

	diff := submittedAt.Sub(dueDate)
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}

	return Lateness{IsLate: true, DaysLate: days}
}

// ApplyLatePenalty deducts latePenaltyPercent of rawScore for every day late.
// The deduction never exceeds rawScore. Both amounts are rounded to cents, so the
// applied penalty and the adjusted score always sum to rawScore.
func ApplyLatePenalty(rawScore float64, lateness Lateness, latePenaltyPercent float64, lateSubmissionAllowed bool) (Penalty, error) {
	if !lateness.IsLate {
		return Penalty{AdjustedScore: rawScore}, nil
	}
	if !lateSubmissionAllowed {
		return Penalty{}, ErrLateNotAllowed
	}

	penalty := rawScore * latePenaltyPercent * float64(lateness.DaysLate) / 100
	if penalty > rawScore {
		penalty = rawScore
	}
	if penalty < 0 {
		penalty = 0
	}
	penalty = round2(penalty)

	return Penalty{
		Applied:       penalty,
		AdjustedScore: math.Max(0, round2(rawScore-penalty)),
	}, nil
}

// Admit applies the late policy to a new submission and returns its lateness.
func Admit(rules Rules, submittedAt time.Time, policy LatePolicy) (Lateness, error) {
	lateness := EvaluateLateness(submittedAt, rules.DueDate)
	if lateness.IsLate && !rules.LateSubmissionAllowed && policy != LatePolicyFlag {
		return lateness, ErrLateNotAllowed
	}
	return lateness, nil
}

// Score validates manualScore against the assignment and computes the final score.
func Score(rules Rules, lateness Lateness, manualScore float64, policy LatePolicy) (Result, error) {
	if math.IsNaN(manualScore) || manualScore < 0 || manualScore > rules.MaxPoints {
		return Result{}, fmt.Errorf("%w: %g not in [0, %g]", ErrScoreOutOfRange, manualScore, rules.MaxPoints)
	}

	allowed := rules.LateSubmissionAllowed || policy == LatePolicyFlag
	penalty, err := ApplyLatePenalty(manualScore, lateness, rules.LatePenaltyPercent, allowed)
	if err != nil {
		return Result{}, err
	}

	final := math.Min(math.Max(penalty.AdjustedScore, 0), rules.MaxPoints)

	return Result{
		Lateness:       lateness,
		ManualScore:    manualScore,
		PenaltyApplied: penalty.Applied,
		FinalScore:     final,
	}, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
