package config

import (
	"Citadel3D/internal/logger"
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Parse reads an INI-like gamepack/level config: `[section]` headers,
// `;`-prefixed comments and `key=value` lines. Keys are flattened into
// `section.key` form. Keys before the first section header keep their bare
// name.
func Parse(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	section := ""

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: malformed section header %q", lineNo, line)
			}
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		if section != "" {
			key = section + "." + key
		}
		values[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// ParseFile loads and parses a config file. Missing or unreadable files are
// a hard error carrying the path; there is no fallback config.
func ParseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return values, nil
}

// LevelConfig is the resolved per-level data the renderer and scene builder
// consume. Raw holds the full flattened key set for anything not promoted to
// a typed field.
type LevelConfig struct {
	Name         string
	MaxPlayers   int
	PlayerSpawns [][2]float32
	HeightScale  float32
	TerrainSize  int
	Textures     map[string]string
	Raw          map[string]string
}

// ParseLevel extracts the typed level fields from a flattened config map.
// Spawn points are read from gameplay.spawn_1 .. gameplay.spawn_N in order;
// the list stops at the first missing ordinal.
func ParseLevel(values map[string]string) (*LevelConfig, error) {
	cfg := &LevelConfig{
		Name:        values["level.name"],
		HeightScale: 1.0,
		TerrainSize: 64,
		Textures:    make(map[string]string),
		Raw:         values,
	}

	if v, ok := values["gameplay.max_players"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("gameplay.max_players: %w", err)
		}
		cfg.MaxPlayers = n
	}
	if v, ok := values["terrain.height_scale"]; ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("terrain.height_scale: %w", err)
		}
		cfg.HeightScale = float32(f)
	}
	if v, ok := values["terrain.size"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("terrain.size: %w", err)
		}
		cfg.TerrainSize = n
	}

	for i := 1; ; i++ {
		v, ok := values[fmt.Sprintf("gameplay.spawn_%d", i)]
		if !ok {
			break
		}
		spawn, err := parseSpawn(v)
		if err != nil {
			return nil, fmt.Errorf("gameplay.spawn_%d: %w", i, err)
		}
		cfg.PlayerSpawns = append(cfg.PlayerSpawns, spawn)
	}

	for key, v := range values {
		if name, ok := strings.CutPrefix(key, "textures."); ok {
			cfg.Textures[name] = v
		}
	}

	logger.Log.Debug("Level config parsed",
		zap.String("name", cfg.Name),
		zap.Int("maxPlayers", cfg.MaxPlayers),
		zap.Int("spawns", len(cfg.PlayerSpawns)))
	return cfg, nil
}

// LoadLevel is ParseFile followed by ParseLevel.
func LoadLevel(path string) (*LevelConfig, error) {
	values, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevel(values)
}

func parseSpawn(v string) ([2]float32, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return [2]float32{}, fmt.Errorf("expected x,y pair, got %q", v)
	}
	var spawn [2]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return [2]float32{}, err
		}
		spawn[i] = float32(f)
	}
	return spawn, nil
}
