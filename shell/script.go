package shell

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

// scriptCommands are the shell commands exposed to Lua as domino_<name>.
var scriptCommands = []string{
	"preset", "new", "step", "play", "board", "hand", "positions", "winners", "summary",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("domino_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		line := strings.TrimSpace(name + " " + L.OptString(1, ""))
		r, err := sc.run(line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

// State pushes the match summary as a table, or nil without a match.
func State(L *lua.LState) int {
	sc := getShell(L)
	s, err := sc.matchSummary()
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	data, err := json.Marshal(s)
	if err != nil {
		L.RaiseError("encoding state: %v", err)
		return 0
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		L.RaiseError("decoding state: %v", err)
		return 0
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) newLuaState() *lua.LState {
	L := lua.NewState()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("domino_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("domino_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("domino_state", L.NewFunction(State))
	return L
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	L := sc.newLuaState()
	defer L.Close()

	if err := L.DoFile(cmd.args[0]); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg(""), nil
}
