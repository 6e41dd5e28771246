package ordernumber

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const prefix = "OC"

// Generate returns a purchase order number of the form OC-YYYY-NNN.
// The sequence part is random and not guaranteed unique; the purchasing
// backend rejects duplicates.
func Generate(now time.Time) string {
	return format(now.Year(), rand.IntN(1000))
}

func format(year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

func Validate(number string) bool {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return false
	}
	if len(parts[1]) != 4 || !digits(parts[1]) {
		return false
	}
	if len(parts[2]) != 3 || !digits(parts[2]) {
		return false
	}
	_, err := strconv.Atoi(parts[1])
	return err == nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
