// Package sapling is a 2D transform hierarchy and UI layout toolkit for
// [Ebitengine].
//
// # Transform trees
//
// A [Tree] holds nodes addressed by [NodeID] handles. Every node owns a local
// [Transform] (relative to its parent) and points at a world transform slot
// that other systems can share. Propagation runs in two directions:
//
//   - [Tree.SyncWorld] recomputes world slots from local transforms, top
//     down. This is the normal direction after gameplay code moves things.
//   - [Tree.SyncLocal] recomputes local transforms from world slots, for
//     when a system such as physics wrote world poses directly.
//
// Each node also keeps a frozen copy of its world transform and matrix from
// the last pass, so lookups between passes read a consistent snapshot.
// Rotations are in degrees.
//
// # Scene
//
// [Scene] ties a tree to entities, a [chipmunk] physics world, a renderer, a
// camera and an optional UI, and runs them in a fixed order each step. It
// implements [ebiten.Game]; [Run] opens a window for it:
//
//	scene := sapling.NewScene()
//	e := scene.NewEntity(sapling.NewTransform(sapling.Vec2{X: 100, Y: 50}, 0, sapling.Vec2{X: 1, Y: 1}))
//	scene.AddSprite(e, img)
//	sapling.Run(scene, sapling.RunConfig{Title: "My Game"})
//
// # UI
//
// A [UI] is a tree of [View] boxes with alignment, margins, padding and a
// pluggable [Layout]. Trees can be built in code or loaded from YAML with
// [LoadUI], and rebuilt on save with a [UIReloader]. Touch input is
// dispatched depth first to every view containing the point.
//
// Tweens use [gween]. An ECS bridge for [Donburi] lives in sapling/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [chipmunk]: https://github.com/jakecoffman/cp
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package sapling
