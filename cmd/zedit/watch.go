// watch.go - a Lua watch-expression console over a read-only register snapshot

package main

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/zrho-lang/zrho"
)

// watchConsole evaluates a single user-entered Lua expression against a
// read-only snapshot of the register file once per tick, flagging every
// register row when the expression evaluates truthy. The Lua state
// never reaches into the machine directly: regValue only ever pushes
// already-read numbers through the bridge closure below.
type watchConsole struct {
	state      *lua.LState
	expression string
	rf         *zrho.RegisterFile
	flagged    [zrho.NumRegisters]bool
	lastErr    error
}

func newWatchConsole() *watchConsole {
	w := &watchConsole{state: lua.NewState()}
	w.state.SetGlobal("reg", w.state.NewFunction(w.regValue))
	return w
}

// regValue is the Lua-callable bridge: reg("H") returns register H's
// scalar value, or the vector cell its Index-Offset currently addresses.
// It returns nil for an unknown or missing register and for a vector
// index outside the vector.
func (w *watchConsole) regValue(L *lua.LState) int {
	name := L.CheckString(1)
	if w.rf == nil {
		L.Push(lua.LNil)
		return 1
	}
	slot, ok := zrho.RegisterWithName(name)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	reg, err := w.rf.Get(slot)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	switch v := reg.Values.(type) {
	case *zrho.ScalarValues:
		L.Push(lua.LNumber(v.Value.Get()))
	case *zrho.VectorValues:
		if cell, err := v.Value(); err == nil {
			L.Push(lua.LNumber(cell.Get()))
		} else {
			L.Push(lua.LNil)
		}
	default:
		L.Push(lua.LNil)
	}
	return 1
}

func (w *watchConsole) setExpression(expr string) {
	w.expression = expr
}

// evaluateAgainst re-runs the watch expression against rf, called once
// per committed tick from the game loop.
func (w *watchConsole) evaluateAgainst(rf *zrho.RegisterFile) {
	w.rf = rf
	w.flagged = [zrho.NumRegisters]bool{}
	if w.expression == "" {
		return
	}
	if err := w.state.DoString("__watch_result = (" + w.expression + ")"); err != nil {
		w.lastErr = err
		return
	}
	w.lastErr = nil
	result := w.state.GetGlobal("__watch_result")
	if lua.LVAsBool(result) {
		for slot := 0; slot < zrho.NumRegisters; slot++ {
			w.flagged[slot] = true
		}
	}
}
