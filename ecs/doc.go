// Package ecs provides ECS adapters for sapling.
//
// [NewDonburiSink] bridges UI touch events (down, drag, up) into a [Donburi]
// world as typed events. Subscribe to [TouchEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	ui.SetTouchSink(ecs.NewDonburiSink(world))
//
// [AttachNode] links Donburi entities to transform tree nodes so systems can
// read propagated world poses.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
