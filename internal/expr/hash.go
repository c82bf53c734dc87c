// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Variant tags are mixed into every hash so that nodes of different variants
// with similar fields do not collide.
const (
	tagInfix byte = iota + 1
	tagComparison
	tagUnaryMinus
	tagNot
	tagPostfix
	tagVariable
	tagConstant
	tagProperty
	tagCustom
)

// hasher accumulates the structural hash of a node. Fields are written in a
// fixed order and strings are length prefixed, so (a, "+", b) and (b, "+", a)
// hash differently.
type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher(tag byte) *hasher {
	h := &hasher{d: xxhash.New()}
	h.d.Write([]byte{tag})
	return h
}

func (h *hasher) uint(v uint64) *hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.d.Write(h.buf[:])
	return h
}

func (h *hasher) str(s string) *hasher {
	h.uint(uint64(len(s)))
	h.d.WriteString(s)
	return h
}

func (h *hasher) node(n Node) *hasher {
	if n == nil {
		return h.uint(0)
	}
	return h.uint(n.Hash())
}

// value hashes v so that values equal under reflect.DeepEqual hash the
// same. Kinds without a cheap canonical form only contribute their type.
func (h *hasher) value(v any) *hasher {
	if v == nil {
		return h.str("<nil>")
	}
	rv := reflect.ValueOf(v)
	h.str(rv.Type().String())

	switch x := v.(type) {
	case time.Time:
		return h.uint(uint64(x.UnixNano()))
	case []byte:
		return h.str(string(x))
	case fmt.Stringer:
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return h.uint(0)
		}
		return h.str(x.String())
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return h.uint(1)
		}
		return h.uint(0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return h.uint(uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return h.uint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return h.uint(floatBits(rv.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		return h.uint(floatBits(real(c))).uint(floatBits(imag(c)))
	case reflect.String:
		return h.str(rv.String())
	}
	return h
}

func (h *hasher) sum() uint64 {
	return h.d.Sum64()
}

// floatBits returns the bits of f with -0 folded into 0, since the two
// compare equal.
func floatBits(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}
