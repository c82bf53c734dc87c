// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FormatLiteral returns the SQL literal for v in dialect d.
func FormatLiteral(d Dialect, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return d.QuoteString(x), nil
	case bool:
		return d.Bool(x), nil
	case []byte:
		if x == nil {
			return "NULL", nil
		}
		return d.Bytes(x), nil
	case time.Time:
		return d.QuoteString(x.UTC().Format(time.RFC3339Nano)), nil
	case decimal.Decimal:
		return x.String(), nil
	case decimal.NullDecimal:
		if !x.Valid {
			return "NULL", nil
		}
		return x.Decimal.String(), nil
	case uuid.UUID:
		return d.QuoteString(x.String()), nil
	case driver.Valuer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL", nil
		}
		dv, err := x.Value()
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidExpression, err)
		}
		return FormatLiteral(d, dv)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL", nil
		}
		return FormatLiteral(d, rv.Elem().Interface())
	case reflect.Bool:
		return d.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v has no literal form", ErrInvalidExpression, f)
		}
		return formatFloat(f, rv.Type().Bits()), nil
	case reflect.String:
		return d.QuoteString(rv.String()), nil
	}

	if s, ok := v.(fmt.Stringer); ok {
		return d.QuoteString(s.String()), nil
	}
	return "", unsupportedLiteralError(v)
}

// formatFloat keeps a fractional part on integral values so that the
// database does not treat them as integers.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}
