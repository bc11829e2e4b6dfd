// Package loader reads world content into a fully linked state.Registry.
// Content comes either from a directory of Lua scripts or from a single
// JSON/YAML file holding an array of entities tagged by type. The Lua VM
// is discarded after loading.
package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/islecore/engine/state"
)

// collector accumulates entity records during Lua file execution, in
// definition order.
type collector struct {
	records []record
}

func (c *collector) add(r record) {
	c.records = append(c.records, r)
}

// Option configures Load.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger that receives validation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Load reads the world at path. A directory is loaded as Lua scripts; a
// .json, .yaml or .yml file as a tagged entity array. The result is
// validated; every problem is reported in one *ValidationError.
func Load(path string, opts ...Option) (*state.Registry, error) {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading world %s: %w", path, err)
	}

	var records []record
	if info.IsDir() {
		records, err = loadLua(path)
	} else {
		records, err = loadData(path)
	}
	if err != nil {
		return nil, err
	}
	o.log.Debug("world records read", "path", path, "records", len(records))

	reg, ve := build(records)
	for _, w := range ve.Warnings {
		o.log.Warn("world content", "warning", w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return reg, nil
}

// loadLua executes every .lua file of dir in a sandboxed VM: game.lua
// first, the rest alphabetically.
func loadLua(dir string) ([]record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading world directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}
	return coll.records, nil
}

// loadData decodes a JSON or YAML array of tagged entity records.
func loadData(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}

	var records []record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("world file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding world file %s: %w", path, err)
	}
	return records, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// World content must not reseed anything.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("randomseed", lua.LNil)
		mathTbl.RawSetString("random", lua.LNil)
	}
}
