package common

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatUnits converts a smallest-unit amount to a display string without float precision loss.
// Example: FormatUnits(24981836, 9) = "0.024981836"
func FormatUnits(value uint64, decimals int) string {
	if decimals <= 0 {
		return strconv.FormatUint(value, 10)
	}
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// ParseUnits converts a display string to smallest units.
// Example: ParseUnits("0.024981836", 9) = 24981836
func ParseUnits(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")

	if len(parts) == 1 {
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		for i := 0; i < decimals; i++ {
			n *= 10
		}
		return n, nil
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	if whole == "" {
		whole = "0"
	}
	frac := parts[1]

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	return strconv.ParseUint(whole+frac, 10, 64)
}

// TransactionsLeft is floor(balance / fee), 0 when the balance does not exceed one fee.
func TransactionsLeft(balance, fee uint64) uint64 {
	if fee == 0 || balance <= fee {
		return 0
	}
	return balance / fee
}

// FormatCountdown renders seconds as mm:ss
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
