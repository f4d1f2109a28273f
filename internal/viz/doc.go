// Package viz hosts a rigid-body world in the terminal.
//
// [Model] is a Bubble Tea program that advances the world at 60 ticks per
// second and draws every body on a braille [Canvas]:
//
//   - circles are outlined, dynamic boxes outlined, static boxes filled
//   - a side panel shows time, body and contact counts, the deepest
//     penetration and a mechanical energy chart
//   - four colour themes, cycled with T
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Rebuild the scene
//	C / B - Spawn a circle / box (rate limited)
//	Arrow - Push the newest body
//	+ / - - Steps per frame
//	?     - Show help
//
// Mouse clicks spawn at the pointer when the program enables mouse
// reporting: left button for a circle, right for a box.
package viz
