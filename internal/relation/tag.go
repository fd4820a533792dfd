package relation

import (
	"fmt"
	"strings"
)

// Tag is the structural class of a function's input/output relation.
type Tag int

const (
	Arbitrary Tag = iota
	Differentiable
	Polynomial
	Affine
	Linear
	Constant
	Zero
)

var tagNames = [...]string{
	Arbitrary:      "ARBITRARY",
	Differentiable: "DIFFERENTIABLE",
	Polynomial:     "POLYNOMIAL",
	Affine:         "AFFINE",
	Linear:         "LINEAR",
	Constant:       "CONSTANT",
	Zero:           "ZERO",
}

// All lists every tag, most structured first.
var All = []Tag{Zero, Constant, Linear, Affine, Polynomial, Differentiable, Arbitrary}

func (t Tag) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

func (t Tag) Valid() bool {
	return t >= Arbitrary && t <= Zero
}

// ParseTag accepts a tag name in any case.
func ParseTag(s string) (Tag, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range tagNames {
		if n == name {
			return Tag(i), nil
		}
	}
	return Arbitrary, fmt.Errorf("%w: unknown relation %q", ErrInvalidArgument, s)
}

func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, t)
	}
	return []byte(t.String()), nil
}

func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
