package main

import (
	"flag"
	"math"
	"time"

	"Citadel3D/internal/config"
	"Citadel3D/internal/engine"
	"Citadel3D/internal/logger"
	"Citadel3D/internal/renderer"
	"Citadel3D/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func main() {
	levelPath := flag.String("level", "assets/levels/skirmish.ini", "level config to load")
	overlay := flag.String("overlay", "", "screen-corner overlay image (optional)")
	fontAtlas := flag.String("font-atlas", "", "SDF font atlas texture (optional)")
	fontMetrics := flag.String("font-metrics", "", "glyph metrics sidecar for the font atlas")
	seed := flag.Int64("seed", 1337, "terrain noise seed")
	debug := flag.Bool("debug", false, "enable GL error checks and debug logging")
	flag.Parse()

	logger.Init()
	defer logger.Sync()
	logger.SetDebug(*debug)
	renderer.Debug = *debug

	cfg, err := config.LoadLevel(*levelPath)
	if err != nil {
		logger.Log.Fatal("Cannot load level", zap.Error(err))
	}

	e := engine.New(1280, 720, "Citadel3D")

	setup := func(e *engine.Engine) error {
		root, err := scene.BuildLevel(cfg, e.Renderer().Textures, *seed)
		if err != nil {
			return err
		}
		e.SetScene(root)

		ui, err := buildInterface(e, cfg.Name, *overlay, *fontAtlas, *fontMetrics)
		if err != nil {
			return err
		}
		e.SetInterface(ui)
		return nil
	}

	if err := e.Run(setup, orbitLogic(cfg)); err != nil {
		logger.Log.Fatal("Engine stopped", zap.Error(err))
	}
}

// buildInterface assembles the UI tree: an optional corner overlay image in
// the background sub-pass, and the level name as SDF text when a font is
// given.
func buildInterface(e *engine.Engine, levelName, overlayPath, atlasPath, metricsPath string) (*renderer.Drawable, error) {
	ui := renderer.NewGroup()

	if overlayPath != "" {
		tex, err := e.Renderer().Textures.LoadTexture(overlayPath)
		if err != nil {
			return nil, err
		}
		img := &renderer.InterfaceImage{
			Texture:  tex,
			Position: mgl32.Vec2{16, 16},
			Size:     mgl32.Vec2{200, 200},
			SubPass:  renderer.PassBackground,
		}
		if err := ui.AddChild(renderer.NewImageNode(img)); err != nil {
			return nil, err
		}
	}

	if atlasPath != "" && metricsPath != "" {
		font, err := renderer.LoadGlyphMetrics(metricsPath)
		if err != nil {
			return nil, err
		}
		font.Texture, err = e.Renderer().Textures.LoadTexture(atlasPath)
		if err != nil {
			return nil, err
		}
		label := &renderer.InterfaceString{
			Text:     levelName,
			Font:     font,
			Position: mgl32.Vec2{16, 240},
			Scale:    24,
			Color:    mgl32.Vec4{1, 1, 1, 1},
		}
		if err := ui.AddChild(renderer.NewStringNode(label)); err != nil {
			return nil, err
		}
	}

	return ui, nil
}

// orbitLogic is the logic thread: it circles the camera around the terrain
// center at a fixed tick rate and publishes a snapshot per tick.
func orbitLogic(cfg *config.LevelConfig) engine.LogicFunc {
	return func(x *engine.Exchange, stop <-chan struct{}) {
		const tick = time.Second / 120
		center := mgl32.Vec3{
			float32(cfg.TerrainSize) * 2,
			0,
			float32(cfg.TerrainSize) * 2,
		}
		radius := float32(cfg.TerrainSize) * 3
		start := time.Now()

		for {
			select {
			case <-stop:
				return
			default:
			}
			tickStart := time.Now()

			angle := time.Since(start).Seconds() * 0.2
			x.Publish(engine.GameData{
				CameraPos: mgl32.Vec3{
					center.X() + radius*float32(math.Cos(angle)),
					cfg.HeightScale*2 + 60,
					center.Z() + radius*float32(math.Sin(angle)),
				},
				CameraTarget: center,
				Level:        cfg.Name,
			})

			engine.Throttle(tickStart, tick)
		}
	}
}
