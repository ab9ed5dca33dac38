package bindit

import (
	"context"
	"strings"

	"github.com/spf13/cast"
	"github.com/zoobzio/pipz"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Transform pipeline identities.
var (
	pipeID      = pipz.NewIdentity("bindit.transform:pipe", "Composed transform sequence")
	pipeStageID = pipz.NewIdentity("bindit.transform:pipe-stage", "Single stage of a composed transform")
)

// Pipe composes transforms into a single Transform that runs them left to
// right. The first failure aborts the chain and its error becomes the
// write error.
func Pipe(transforms ...Transform) Transform {
	stages := make([]pipz.Chainable[any], len(transforms))
	for i, t := range transforms {
		stages[i] = pipz.Apply(pipeStageID, t)
	}
	seq := pipz.NewSequence(pipeID, stages...)
	return func(ctx context.Context, v any) (any, error) {
		return seq.Process(ctx, v)
	}
}

// Trim removes leading and trailing whitespace from string values.
// Non-string values pass through unchanged.
func Trim(_ context.Context, v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return v, nil
}

// Upper converts string values to upper case. Non-string values pass
// through unchanged.
func Upper(_ context.Context, v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s), nil
	}
	return v, nil
}

// Lower converts string values to lower case. Non-string values pass
// through unchanged.
func Lower(_ context.Context, v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToLower(s), nil
	}
	return v, nil
}

// ToNumber coerces any value to a float64. Unparseable input degrades to
// zero rather than failing the write.
func ToNumber(_ context.Context, v any) (any, error) {
	return toNumber(v), nil
}

// currencyPrinter renders grouped decimal output for Currency.
var currencyPrinter = message.NewPrinter(language.English)

// Currency coerces the value to a number and formats it as a grouped
// dollar amount, e.g. 1234.5 becomes "$1,234.50".
func Currency(_ context.Context, v any) (any, error) {
	return currencyPrinter.Sprintf("$%.2f", toNumber(v)), nil
}

// toNumber converts v to a float64, degrading to zero when v has no
// numeric reading.
func toNumber(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}
