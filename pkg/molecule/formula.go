package molecule

import (
	"fmt"
	"sort"
	"strings"
)

// Composition maps element symbols to their counts.
type Composition map[string]int

// Formula returns the unreduced Hill-order formula: carbon first, hydrogen
// second, remaining elements alphabetically.
func (c Composition) Formula() string {
	return c.format(1)
}

// ReducedFormula divides all counts by their greatest common divisor before
// formatting, so C2H6 renders as CH3 and H2O2 as HO.
func (c Composition) ReducedFormula() string {
	div := 0
	for _, n := range c {
		div = gcd(div, n)
	}
	if div == 0 {
		div = 1
	}

	return c.format(div)
}

func (c Composition) format(div int) string {
	symbols := make([]string, 0, len(c))
	for sym := range c {
		if sym == "C" || sym == "H" {
			continue
		}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	if _, ok := c["C"]; ok {
		symbols = append([]string{"C", "H"}, symbols...)
	} else {
		symbols = append([]string{"H"}, symbols...)
	}

	var sb strings.Builder
	for _, sym := range symbols {
		n, ok := c[sym]
		if !ok || n == 0 {
			continue
		}
		n /= div
		if n == 1 {
			sb.WriteString(sym)
		} else {
			fmt.Fprintf(&sb, "%s%d", sym, n)
		}
	}

	return sb.String()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}
