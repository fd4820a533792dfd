package relation

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for empty reductions and unknown tag names.
var ErrInvalidArgument = errors.New("relation: invalid argument")

// Parent returns the single tag t derives from. Arbitrary is its own parent.
func Parent(t Tag) Tag {
	switch t {
	case Differentiable:
		return Arbitrary
	case Polynomial:
		return Differentiable
	case Affine:
		return Polynomial
	case Linear:
		return Affine
	case Constant:
		return Affine
	case Zero:
		return Linear // also constant, but only one parent is allowed
	default:
		return Arbitrary
	}
}

// IsA reports whether t equals base or descends from it.
func IsA(t, base Tag) bool {
	for {
		if t == base || base == Arbitrary {
			return true
		}
		if t == Arbitrary {
			return false
		}
		t = Parent(t)
	}
}

// Ancestors returns the chain from t up to and including Arbitrary.
func Ancestors(t Tag) []Tag {
	chain := []Tag{t}
	for t != Arbitrary {
		t = Parent(t)
		chain = append(chain, t)
	}
	return chain
}

// LeastCommonAncestor walks a's ancestor chain until it reaches a tag that
// b is also an instance of.
func LeastCommonAncestor(a, b Tag) Tag {
	for {
		if a == Arbitrary || b == Arbitrary {
			return Arbitrary
		}
		if IsA(b, a) {
			return a
		}
		a = Parent(a)
	}
}

// Reduce folds tags left to right with LeastCommonAncestor.
func Reduce(tags ...Tag) (Tag, error) {
	if len(tags) == 0 {
		return Arbitrary, fmt.Errorf("%w: reduce requires at least one tag", ErrInvalidArgument)
	}
	ret := tags[0]
	for _, t := range tags[1:] {
		ret = LeastCommonAncestor(ret, t)
	}
	return ret, nil
}

// ComposeWith classifies g∘f. The result is conservative: composing two
// affine maps is affine, but composing POLYNOMIAL with CONSTANT is reported
// as POLYNOMIAL rather than CONSTANT.
func ComposeWith(g, f Tag) Tag {
	return LeastCommonAncestor(g, f)
}

// Combine classifies the output-wise concatenation of two functions.
func Combine(a, b Tag) Tag {
	return LeastCommonAncestor(a, b)
}

// CombineAll classifies the concatenation of any number of functions.
func CombineAll(tags ...Tag) (Tag, error) {
	return Reduce(tags...)
}
