// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is returned when an expression violates a structural
// precondition, at construction or at render time.
var ErrInvalidExpression = errors.New("invalid expression")

func emptyOperatorError() error {
	return fmt.Errorf("%w: empty operator symbol", ErrInvalidExpression)
}

func missingOperandError(operator string) error {
	return fmt.Errorf("%w: missing operand for %q", ErrInvalidExpression, operator)
}

func unknownNodeError(n Node) error {
	return fmt.Errorf("%w: unknown node type %T", ErrInvalidExpression, n)
}

func unsupportedLiteralError(v any) error {
	return fmt.Errorf("%w: cannot write %T as a literal", ErrInvalidExpression, v)
}
