package valuation

import (
	"errors"
	"fmt"
	"math"
)

// Kind classifies why a valuation failed.
type Kind int

const (
	MissingStatementData Kind = iota + 1
	UnresolvedLineItem
	InvalidMetric
	InsufficientHistory
	ShareCountUnavailable
	ComputationDegenerate
)

var kindNames = map[Kind]string{
	MissingStatementData:  "missing statement data",
	UnresolvedLineItem:    "unresolved line item",
	InvalidMetric:         "invalid metric",
	InsufficientHistory:   "insufficient history",
	ShareCountUnavailable: "share count unavailable",
	ComputationDegenerate: "computation degenerate",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// State is a step of the valuation pipeline.
type State int

const (
	Start State = iota
	StatementsResolved
	RatesEstimated
	Projected
	Discounted
	Assembled
)

var stateNames = [...]string{"start", "statements resolved", "rates estimated", "projected", "discounted", "assembled"}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Error is the single terminal failure of a valuation. State is the last
// state the pipeline reached before failing.
type Error struct {
	Kind  Kind
	State State
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the Err* sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingStatementData  = &Error{Kind: MissingStatementData}
	ErrUnresolvedLineItem    = &Error{Kind: UnresolvedLineItem}
	ErrInvalidMetric         = &Error{Kind: InvalidMetric}
	ErrInsufficientHistory   = &Error{Kind: InsufficientHistory}
	ErrShareCountUnavailable = &Error{Kind: ShareCountUnavailable}
	ErrComputationDegenerate = &Error{Kind: ComputationDegenerate}
)

// KindOf returns the Kind of a valuation error, or 0 for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func fail(kind Kind, state State, field, msg string) *Error {
	return &Error{Kind: kind, State: state, Field: field, Msg: msg}
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// checkFinite fails with ComputationDegenerate on the first NaN or ±Inf value.
func checkFinite(state State, what string, vals ...float64) error {
	for _, v := range vals {
		if !isFinite(v) {
			return fail(ComputationDegenerate, state, "", what+" calculation invalid")
		}
	}
	return nil
}
