package entities

import (
	"strings"

	"github.com/drujensen/gaurika/internal/domain/errs"
)

// TrustMode decides whether commands and schedule changes run freely,
// need a y/n confirmation, or are refused outright.
type TrustMode string

const (
	TrustFull TrustMode = "full"
	TrustHalf TrustMode = "half"
	TrustNone TrustMode = "none"
)

func ParseTrustMode(value string) (TrustMode, error) {
	mode := TrustMode(strings.ToLower(strings.TrimSpace(value)))
	if !mode.Valid() {
		return "", errs.ValidationErrorf("invalid trust mode %q: expected full, half or none", value)
	}
	return mode, nil
}

func (t TrustMode) Valid() bool {
	switch t {
	case TrustFull, TrustHalf, TrustNone:
		return true
	}
	return false
}

func (t TrustMode) Description() string {
	switch t {
	case TrustFull:
		return "Commands and scheduled task changes run without asking for confirmation."
	case TrustHalf:
		return "Every command and scheduled task change is confirmed by the user before it runs."
	default:
		return "Commands and scheduled task changes are disabled; the assistant can only explain them."
	}
}
