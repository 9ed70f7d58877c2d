package transform

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes a monetary value that upstream serializes inconsistently:
// sometimes a JSON number, sometimes a quoted string, sometimes null.
// Anything unparseable decodes to 0 instead of failing the whole record.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// Amount clamps a parsed monetary value to a valid non-negative amount.
func Amount(f FlexFloat) float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// FormatCurrency renders an amount as Rupiah with dot thousands separators
// and no decimals, e.g. 150000 -> "Rp 150.000". Invalid or negative input
// renders as the zero value.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}

	n := int64(math.Round(amount))
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	b.WriteString("Rp ")
	rem := len(digits) % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
		if len(digits) > rem {
			b.WriteByte('.')
		}
	}
	for i := rem; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}
