// Package event provides the input event bus for keyflux.
//
// The bus is the seam between a host environment (terminal, GLFW window,
// ebiten game loop, scripted replay) and the input-state tracker. Hosts
// publish key and mouse-button transitions; the tracker subscribes to the
// four input topics and mirrors them into its pressed-state map.
//
// # Topics
//
// Exactly four topics exist:
//
//	input.key.down
//	input.key.up
//	input.mouse.down
//	input.mouse.up
//
// # Delivery
//
// Delivery is synchronous: Publish invokes every active subscriber for the
// event's topic, in subscription order, on the publisher's goroutine. A
// handler panic is recovered and routed to the bus's panic hook; it never
// propagates to the publisher. Subscribing returns a Subscription handle
// that must be retained to unsubscribe the same handler later.
package event
