// Package relation classifies functions by the structure of their
// input/output relation.
//
// A [Tag] places a function in a small lattice:
//
//	ARBITRARY
//	└── DIFFERENTIABLE
//	    └── POLYNOMIAL
//	        └── AFFINE
//	            ├── LINEAR
//	            │   └── ZERO
//	            └── CONSTANT
//
// Algorithms use the tag to pick a solution method without evaluating the
// function. Combining two functions (composition or output-wise stacking)
// yields the least common ancestor of their tags, which never claims more
// structure than the inputs already had.
//
// # Limitations
//
// Each tag has exactly one parent. ZERO is both linear and constant, but it
// sits under LINEAR only, so IsA(Zero, Constant) is false and a combination
// that routes through ZERO loses the CONSTANT guarantee.
package relation
