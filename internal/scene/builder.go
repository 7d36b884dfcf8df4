package scene

import (
	"errors"
	"fmt"

	"Citadel3D/internal/config"
	"Citadel3D/internal/logger"
	"Citadel3D/internal/renderer"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	terrainAlpha       = 2.0
	terrainBeta        = 2.0
	terrainOctaves     = 3
	terrainNoiseScale  = 0.04
	spawnLightStrength = 6.0
	spawnLightHeight   = 8.0
)

// TerrainMesh builds a gridSize x gridSize heightmap mesh from perlin noise.
// Deterministic for a given seed, so the same level always produces
// byte-identical vertex data.
func TerrainMesh(gridSize int, gridSpacing, heightScale float32, seed int64) (*renderer.Mesh, error) {
	if gridSize < 2 {
		return nil, errors.New("terrain: gridSize must be at least 2")
	}

	noise := perlin.NewPerlin(terrainAlpha, terrainBeta, terrainOctaves, seed)
	height := func(x, z int) float32 {
		n := noise.Noise2D(float64(x)*terrainNoiseScale, float64(z)*terrainNoiseScale)
		return float32(n) * heightScale
	}

	vertices := make([]float32, 0, gridSize*gridSize*renderer.VertexFloats)
	for x := 0; x < gridSize; x++ {
		for z := 0; z < gridSize; z++ {
			h := height(x, z)

			// Central-difference normal from the height function.
			dx := height(x+1, z) - height(x-1, z)
			dz := height(x, z+1) - height(x, z-1)
			normal := mgl32.Vec3{-dx, 2 * gridSpacing, -dz}.Normalize()

			vertices = append(vertices,
				float32(x)*gridSpacing, h, float32(z)*gridSpacing, // position
				float32(x)/4, float32(z)/4, // uv, tiled
				1, 1, 1, 1, // color
				normal.X(), normal.Y(), normal.Z(),
			)
		}
	}

	indices := make([]uint32, 0, (gridSize-1)*(gridSize-1)*6)
	for x := 0; x < gridSize-1; x++ {
		for z := 0; z < gridSize-1; z++ {
			topLeft := uint32(x*gridSize + z)
			topRight := topLeft + 1
			bottomLeft := uint32((x+1)*gridSize + z)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, bottomRight)
			indices = append(indices, topLeft, bottomRight, topRight)
		}
	}

	return renderer.NewMesh(vertices, indices)
}

// BuildLevel turns a resolved level config into a scene tree: the terrain
// model, a sun light, and a point light marking each player spawn. Textures
// named in the config load through the manager; a missing file is a hard
// error, there is no placeholder asset.
func BuildLevel(cfg *config.LevelConfig, tm *renderer.TextureManager, seed int64) (*renderer.Drawable, error) {
	root := renderer.NewGroup()

	mesh, err := TerrainMesh(cfg.TerrainSize, 4.0, cfg.HeightScale, seed)
	if err != nil {
		return nil, err
	}

	textures, err := loadTextureSet(cfg, tm)
	if err != nil {
		return nil, err
	}

	terrain := renderer.NewModel(mesh, textures)
	if err := root.AddChild(renderer.NewModelNode(terrain)); err != nil {
		return nil, err
	}

	sun := &renderer.Light{
		Position: mgl32.Vec3{0, 400, 0},
		Color:    mgl32.Vec3{1, 0.96, 0.85},
		Strength: 40,
	}
	if err := root.AddChild(renderer.NewLightNode(sun)); err != nil {
		return nil, err
	}

	for i, spawn := range cfg.PlayerSpawns {
		light := &renderer.Light{
			Position: mgl32.Vec3{spawn[0], spawnLightHeight, spawn[1]},
			Color:    spawnColor(i),
			Strength: spawnLightStrength,
		}
		if err := root.AddChild(renderer.NewLightNode(light)); err != nil {
			return nil, err
		}
	}

	logger.Log.Info("Level scene built",
		zap.String("level", cfg.Name),
		zap.Int("terrainSize", cfg.TerrainSize),
		zap.Int("spawns", len(cfg.PlayerSpawns)))
	return root, nil
}

func loadTextureSet(cfg *config.LevelConfig, tm *renderer.TextureManager) (renderer.TextureSet, error) {
	var ts renderer.TextureSet
	for name, target := range map[string]*uint32{
		"diffuse": &ts.Diffuse,
		"gloss":   &ts.Gloss,
		"ao":      &ts.AmbientOcclusion,
		"normal":  &ts.Normal,
		"height":  &ts.Height,
	} {
		path, ok := cfg.Textures[name]
		if !ok {
			continue
		}
		id, err := tm.LoadTexture(path)
		if err != nil {
			return ts, fmt.Errorf("level %s: %w", cfg.Name, err)
		}
		*target = id
	}
	return ts, nil
}

func spawnColor(i int) mgl32.Vec3 {
	colors := []mgl32.Vec3{
		{1, 0.2, 0.2},
		{0.2, 0.4, 1},
		{0.2, 1, 0.3},
		{1, 0.9, 0.2},
	}
	return colors[i%len(colors)]
}
