// Package control closes a block's inputs with state feedback.
//
// A [StateFeedback] maps state to input as u = u0 - K(x - x*). Its
// function is tagged ZERO, LINEAR or AFFINE depending on which terms are
// present, and [ClosedLoop] composes it with a model's dynamics so the
// closed-loop relation follows from the lattice:
//
//	fb, _ := control.ForModel(m)
//	cl, _ := control.ClosedLoop(m, fb)
//	poles, _ := control.Poles(function.Jacobian(cl, x))
package control
