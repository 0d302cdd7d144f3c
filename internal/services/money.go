package services

import (
	"fmt"
	"math"
	"strconv"
)

// formatCLP renders an amount with thousands separators and no decimal
// places. CLP has no fractional unit in practice.
func formatCLP(amount float64) string {
	neg := amount < 0
	s := strconv.FormatFloat(math.Abs(math.Round(amount)), 'f', 0, 64)

	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	if neg {
		return fmt.Sprintf("-%s", out)
	}
	return string(out)
}
