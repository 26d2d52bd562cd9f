package dialog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parsePositive accepts both "12.5" and "12,5".
func parsePositive(text string) (float64, error) {
	t := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrValidation, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrValidation, text)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %v must be positive", ErrValidation, v)
	}
	return v, nil
}

func invalid(text string, err error) Response {
	return Response{Text: text, Err: err}
}
