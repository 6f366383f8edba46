package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for terrain scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
// Scripts under terrain/ are loaded last so they can use helpers from core/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, sub := range []string{"core", "terrain"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	if e.vm.GetGlobal("generate_tile") == lua.LNil {
		e.vm.Close()
		return nil, fmt.Errorf("load scripts %s: generate_tile not defined", scriptsDir)
	}
	return e, nil
}

// NewEngineFromString builds an engine from a single chunk of Lua source.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// TileContext holds the inputs of one generate_tile call.
type TileContext struct {
	X, Y   int // tile position inside the chunk
	ChunkX int32
	ChunkY int32
	Layer  int32
	Seed   int64
}

// TileResult is returned by the Lua generate_tile function.
// Type is "wall" or "ground"; Terrain names a terrain type.
type TileResult struct {
	Type    string
	Terrain string
}

var fallbackTile = TileResult{Type: "wall", Terrain: "stone"}

// GenerateTile calls the Lua generate_tile function. Script failures are logged
// and yield a stone wall.
func (e *Engine) GenerateTile(ctx TileContext) TileResult {
	fn := e.vm.GetGlobal("generate_tile")
	if fn == lua.LNil {
		e.log.Error("lua function generate_tile not found")
		return fallbackTile
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("seed", lua.LNumber(ctx.Seed))

	chunk := e.vm.NewTable()
	chunk.RawSetString("x", lua.LNumber(ctx.ChunkX))
	chunk.RawSetString("y", lua.LNumber(ctx.ChunkY))
	chunk.RawSetString("layer", lua.LNumber(ctx.Layer))
	t.RawSetString("chunk", chunk)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua generate_tile error", zap.Error(err))
		return fallbackTile
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua generate_tile returned non-table")
		return fallbackTile
	}

	return TileResult{
		Type:    lStr(rt, "type"),
		Terrain: lStr(rt, "terrain"),
	}
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
