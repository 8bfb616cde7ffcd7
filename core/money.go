package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is an amount in minor units (pence). Stored as NUMERIC(10,2).
type Money int64

func MoneyFromMajor(units int64) Money { return Money(units * 100) }

// ParseMoney parses a decimal string such as "12.5" or "0.50".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing amount %q", s)
	}
	return fromFloat(f), nil
}

func fromFloat(f float64) Money {
	return Money(math.Round(f * 100))
}

func (m Money) Times(n int64) Money { return m * Money(n) }

// String formats m with two decimals and no currency symbol.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Format renders m in the given ISO 4217 currency, e.g. "£1.50" for GBP.
func (m Money) Format(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return m.String()
	}
	p := message.NewPrinter(language.BritishEnglish)
	sym := strings.TrimSpace(p.Sprint(currency.Symbol(unit)))
	if m < 0 {
		return "-" + sym + (-m).String()
	}
	return sym + m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*m = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding amount")
		}
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner. NUMERIC arrives as text from postgres drivers and as REAL/INTEGER from sqlite.
func (m *Money) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = 0
	case int64:
		*m = MoneyFromMajor(v)
	case float64:
		*m = fromFloat(v)
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
	default:
		return fmt.Errorf("cannot scan %T into core.Money", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
