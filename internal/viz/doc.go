// Package viz renders the simulation in a terminal using Bubble Tea.
//
// Bodies are drawn as filled circles on a Braille [Canvas], giving 2x4 dots
// per character cell. The world origin sits at the centre of the screen with
// y pointing up.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial bodies
//	S     - Save bodies (prompts for a path)
//	L     - Load bodies (prompts for a path)
//	Q     - Quit
//
// Dragging with the left mouse button picks up the body under the pointer
// and holds it in place until the button is released.
package viz
