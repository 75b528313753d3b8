package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyflux/internal/input"
)

// ErrDriverClosed is returned when running a script on a closed driver.
var ErrDriverClosed = errors.New("script driver is closed")

// Tracker is the slice of the input state the script module needs.
// *state.State satisfies it.
type Tracker interface {
	AddAction(name string, id input.ID)
	ActionPress(name string)
	ActionRelease(name string)
	IsActionPressed(name string) bool
	IsAnythingPressed() bool
}

// Driver owns a Lua state with the keyflux module preloaded and runs
// scripts against a tracker. Not goroutine-safe; use from one goroutine.
type Driver struct {
	L       *lua.LState
	tracker Tracker
	closed  bool
}

// NewDriver creates a driver bound to a tracker. The io and os libraries
// are not opened; scripts get the base, string, table and math libraries
// plus the keyflux module.
func NewDriver(tracker Tracker) *Driver {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage}, // must be opened first
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}

	d := &Driver{L: L, tracker: tracker}
	L.PreloadModule("keyflux", d.moduleLoader)
	return d
}

// Close releases the Lua state. Idempotent.
func (d *Driver) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.L.Close()
}

// RunString executes a script source against the tracker.
func (d *Driver) RunString(src string) error {
	if d.closed {
		return ErrDriverClosed
	}
	if err := d.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// RunFile executes a script file against the tracker.
func (d *Driver) RunFile(path string) error {
	if d.closed {
		return ErrDriverClosed
	}
	if err := d.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// moduleLoader builds the keyflux module table.
func (d *Driver) moduleLoader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"bind":             d.luaBind,
		"bind_mouse":       d.luaBindMouse,
		"press":            d.luaPress,
		"release":          d.luaRelease,
		"tap":              d.luaTap,
		"is_pressed":       d.luaIsPressed,
		"anything_pressed": d.luaAnythingPressed,
	})
	L.Push(mod)
	return 1
}

// luaBind implements keyflux.bind(action, keyLabel).
func (d *Driver) luaBind(L *lua.LState) int {
	action := L.CheckString(1)
	label := L.CheckString(2)
	d.tracker.AddAction(action, input.Key(label))
	return 0
}

// luaBindMouse implements keyflux.bind_mouse(action, button).
// Button 0 is the primary button.
func (d *Driver) luaBindMouse(L *lua.LState) int {
	action := L.CheckString(1)
	button := L.CheckInt(2)
	if button < 0 {
		L.ArgError(2, "mouse button must be non-negative")
		return 0
	}
	d.tracker.AddAction(action, input.MouseButton(button))
	return 0
}

// luaPress implements keyflux.press(action). Unbound actions are a no-op,
// matching the tracker's policy.
func (d *Driver) luaPress(L *lua.LState) int {
	d.tracker.ActionPress(L.CheckString(1))
	return 0
}

// luaRelease implements keyflux.release(action).
func (d *Driver) luaRelease(L *lua.LState) int {
	d.tracker.ActionRelease(L.CheckString(1))
	return 0
}

// luaTap implements keyflux.tap(action): press immediately followed by
// release, the scripted equivalent of a keystroke.
func (d *Driver) luaTap(L *lua.LState) int {
	name := L.CheckString(1)
	d.tracker.ActionPress(name)
	d.tracker.ActionRelease(name)
	return 0
}

// luaIsPressed implements keyflux.is_pressed(action).
func (d *Driver) luaIsPressed(L *lua.LState) int {
	L.Push(lua.LBool(d.tracker.IsActionPressed(L.CheckString(1))))
	return 1
}

// luaAnythingPressed implements keyflux.anything_pressed().
func (d *Driver) luaAnythingPressed(L *lua.LState) int {
	L.Push(lua.LBool(d.tracker.IsAnythingPressed()))
	return 1
}
