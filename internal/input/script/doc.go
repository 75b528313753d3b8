// Package script drives an input-state tracker from Lua.
//
// Scripts see a preloaded "keyflux" module:
//
//	local input = require("keyflux")
//	input.bind("jump", "Space")
//	input.bind_mouse("shoot", 0)
//	input.press("jump")
//	if input.is_pressed("jump") then input.release("jump") end
//	input.tap("shoot")
//
// Scripted input goes through the tracker's manual triggers, so it is
// indistinguishable from real input to consumers and needs no host
// environment at all. Useful for replays and for exercising game logic in
// tests.
//
// gopher-lua's LState is not goroutine-safe; a Driver must be used from a
// single goroutine.
package script
