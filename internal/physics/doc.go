// Package physics holds the point-mass model: bodies, pairwise softened
// gravity, and the energy and momentum diagnostics used to check it.
//
// Positions and velocities are in simulation units, which are normalized
// document units multiplied by [DisplayScale]. [G] grows with the cube of the
// scale, so a system keeps its shape and period at any scale:
//
//	field := physics.NewForceField()
//	forces := field.Forces(bodies)
//	e := field.Energy(bodies)
package physics
