// Package validator applies the deterministic acceptance rules that
// decide whether an extracted candidate is kept. It is stateless apart
// from the configured confidence threshold.
package validator

import (
	"strings"

	"signal-extractor/internal/types"
)

// ActionValidator filters candidate trading actions against a minimum
// confidence and syntactic sanity rules.
type ActionValidator struct {
	minConfidence float64
}

// New creates a validator with the given confidence threshold.
func New(minConfidence float64) *ActionValidator {
	return &ActionValidator{minConfidence: minConfidence}
}

// MinConfidence returns the configured threshold.
func (v *ActionValidator) MinConfidence() float64 {
	return v.minConfidence
}

// Validate reports whether a single candidate is acceptable. Malformed
// candidates simply fail validation; Validate never errors.
func (v *ActionValidator) Validate(action types.TradingAction) bool {
	if !action.IsValid() {
		return false
	}
	if action.Confidence < v.minConfidence {
		return false
	}
	if !validSymbol(action.Symbol) {
		return false
	}
	if action.Price != nil && *action.Price <= 0 {
		return false
	}
	if action.Quantity != nil && *action.Quantity <= 0 {
		return false
	}
	return true
}

// Filter keeps only acceptable candidates, preserving input order.
func (v *ActionValidator) Filter(actions []types.TradingAction) []types.TradingAction {
	kept := make([]types.TradingAction, 0, len(actions))
	for _, action := range actions {
		if v.Validate(action) {
			kept = append(kept, action)
		}
	}
	return kept
}

// ExecutableActions keeps only acceptable candidates that are also
// executable (BUY or SELL at or above the threshold).
func (v *ActionValidator) ExecutableActions(actions []types.TradingAction) []types.TradingAction {
	executable := make([]types.TradingAction, 0, len(actions))
	for _, action := range actions {
		if v.Validate(action) && action.IsExecutable(v.minConfidence) {
			executable = append(executable, action)
		}
	}
	return executable
}

// validSymbol accepts 1-10 character tickers, alphanumeric once '.'
// separators are stripped (BRK.B style class shares).
func validSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > 10 {
		return false
	}
	stripped := strings.ReplaceAll(symbol, ".", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !isAlnum(r) {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
