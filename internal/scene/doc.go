// Package scene turns a [config.Scene] into a populated [world.World].
//
// It also provides the pieces hosts share when users add bodies at
// runtime:
//   - Borders encloses a canvas with four static walls
//   - Spawner builds the circle and box bodies placed on user input
package scene
