// Package lua runs custom drawing modes written in Lua.
//
// A mode script returns a table of hooks. Every hook is optional:
//
//	local picked = {}
//	return {
//	  onSetup = function(opts) draw.clearSelected() end,
//	  onClick = function(e)
//	    if e.target then draw.select(e.target.id) end
//	  end,
//	  onKeyUp = function(e)
//	    if e.key == "Escape" then draw.changeMode("simple_select") end
//	  end,
//	}
//
// Supported hooks are onSetup(opts), onStop(), onClick(e), onMouseDown(e),
// onMouseUp(e), onDrag(e), onKeyUp(e) and onTrash(). A mouse or key hook
// that returns false skips the render pass that would follow it.
//
// Scripts run in a sandboxed state with only the base, table, string and
// math libraries. The draw module, available as a global and through
// require("draw"), reads and changes the store of the session running the
// mode. Each hook call is bounded by a timeout.
package lua
