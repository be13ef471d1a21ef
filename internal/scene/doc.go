// Package scene provides the simulation context for the background animation.
//
// The package defines the entity types the engine steps every frame:
//
//   - [Surface]: drawable area and device pixel ratio
//   - [PointerState]: last pointer position, sticky active flag
//   - [ImpulseRing]: the single expanding click shockwave
//   - [FieldBody]: large glowing backdrop blob
//   - [PointAgent]: small particle subject to forces
//   - [Scene]: owns all of the above plus the tuning [Params]
//
// # Example
//
//	sc := scene.New(scene.DefaultParams(), 42)
//	sc.Reseed(scene.Surface{Width: 800, Height: 600, DPR: 1})
//
// # Thread Safety
//
// Scene instances are NOT thread-safe. The sim.Controller serializes every
// write behind one exclusive section per frame.
package scene
