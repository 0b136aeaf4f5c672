package shared

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures surfaced by the dlmm packages.
type ErrorKind uint8

const (
	KindInsufficientLiquidity ErrorKind = iota + 1
	KindMissingBinGroupData
	KindInvalidDistributionInput
	KindNumericOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case KindInsufficientLiquidity:
		return "insufficient liquidity"
	case KindMissingBinGroupData:
		return "missing bin array data"
	case KindInvalidDistributionInput:
		return "invalid distribution input"
	case KindNumericOverflow:
		return "numeric overflow"
	default:
		return "unknown error"
	}
}

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNumericOverflow) works for
// errors carrying a message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInsufficientLiquidity    = &Error{Kind: KindInsufficientLiquidity}
	ErrMissingBinGroupData      = &Error{Kind: KindMissingBinGroupData}
	ErrInvalidDistributionInput = &Error{Kind: KindInvalidDistributionInput}
	ErrNumericOverflow          = &Error{Kind: KindNumericOverflow}
)

func NewError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
