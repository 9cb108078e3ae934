// Package sim runs the tick loop. Each [Simulator.Tick] applies one batch of
// [Signals] through the [Controller], then, if running, computes every force
// from the same snapshot of positions and integrates all bodies once.
package sim
