package engine

import (
	"fmt"
	"runtime"
	"time"

	"Citadel3D/internal/logger"
	"Citadel3D/internal/renderer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// LogicFunc runs on the logic thread. It owns camera targets, world state
// and the event queue, publishes snapshots through the exchange, and must
// return when stop closes.
type LogicFunc func(x *Exchange, stop <-chan struct{})

// SetupFunc runs once on the render thread after the GL context and the
// renderer exist, and builds the initial scene and interface trees.
type SetupFunc func(e *Engine) error

// Engine owns the window, the renderer, and the two-thread frame
// orchestration. All graphics-API calls happen on the render thread, which
// is locked to its OS thread; the logic thread communicates only through
// the Exchange.
type Engine struct {
	Width  int32
	Height int32
	Title  string

	Camera   *renderer.Camera
	Exchange *Exchange

	window *glfw.Window
	rend   *renderer.Renderer

	scene *renderer.Drawable
	ui    *renderer.Drawable

	lastX, lastY float64
	firstMouse   bool
}

func New(width, height int32, title string) *Engine {
	return &Engine{
		Width:      width,
		Height:     height,
		Title:      title,
		Exchange:   &Exchange{},
		firstMouse: true,
	}
}

// Renderer is valid after setup has run.
func (e *Engine) Renderer() *renderer.Renderer { return e.rend }

func (e *Engine) Window() *glfw.Window { return e.window }

// SetScene replaces the 3D scene tree, releasing the old one's GPU
// resources. Render thread only.
func (e *Engine) SetScene(root *renderer.Drawable) {
	if e.scene != nil {
		e.scene.Release(e.rend.Textures)
	}
	e.scene = root
}

// SetInterface replaces the UI tree. Render thread only.
func (e *Engine) SetInterface(root *renderer.Drawable) {
	if e.ui != nil {
		e.ui.Release(e.rend.Textures)
	}
	e.ui = root
}

// Run creates the window and context, runs setup, starts the logic thread
// and drives the frame loop until the window closes.
func (e *Engine) Run(setup SetupFunc, logic LogicFunc) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(int(e.Width), int(e.Height), e.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	e.window = window
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl init: %w", err)
	}
	logger.Log.Info("OpenGL context ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	e.rend, err = renderer.NewRenderer(e.Width, e.Height)
	if err != nil {
		// Startup shader failure is fatal by policy.
		return fmt.Errorf("renderer init: %w", err)
	}
	defer e.rend.Release()

	e.Camera = renderer.NewDefaultCamera(e.Width, e.Height)
	window.SetCursorPosCallback(e.mouseCallback)

	if setup != nil {
		if err := setup(e); err != nil {
			return fmt.Errorf("scene setup: %w", err)
		}
	}
	defer func() {
		if e.scene != nil {
			e.scene.Release(e.rend.Textures)
		}
		if e.ui != nil {
			e.ui.Release(e.rend.Textures)
		}
	}()

	stop := make(chan struct{})
	logicDone := make(chan struct{})
	if logic != nil {
		go func() {
			defer close(logicDone)
			logic(e.Exchange, stop)
		}()
	} else {
		close(logicDone)
	}

	e.renderLoop()

	close(stop)
	<-logicDone
	return nil
}

func (e *Engine) renderLoop() {
	lastTime := glfw.GetTime()
	lastTitle := lastTime

	for !e.window.ShouldClose() {
		now := glfw.GetTime()
		deltaTime := now - lastTime
		lastTime = now

		if w, h := e.window.GetSize(); int32(w) != e.Width || int32(h) != e.Height {
			e.Width, e.Height = int32(w), int32(h)
			e.Camera.SetAspectRatio(float32(w) / float32(h))
			if err := e.rend.Resize(e.Width, e.Height); err != nil {
				logger.Log.Error("Viewport resize failed", zap.Error(err))
			}
		}

		// One snapshot fetch per frame; the swap inside is the only
		// cross-thread critical section.
		data, fresh, events := e.Exchange.Fetch()
		if fresh {
			e.Camera.Position = data.CameraPos
			e.Camera.LookAt(data.CameraTarget)
		}
		for _, ev := range events {
			e.handleEvent(ev)
		}

		e.Camera.ProcessKeyboard(e.window, float32(deltaTime))

		e.rend.RenderFrame(e.scene, e.ui, e.Camera, deltaTime)

		// Present; may block on vsync.
		e.window.SwapBuffers()
		glfw.PollEvents()

		if now-lastTitle > 0.5 {
			e.window.SetTitle(fmt.Sprintf("%s | %s", e.Title, e.rend.Stats().Summary()))
			lastTitle = now
		}
	}
}

func (e *Engine) handleEvent(ev Event) {
	switch ev.Kind {
	case EventToggleDebug:
		renderer.Debug = !renderer.Debug
		logger.SetDebug(renderer.Debug)
		logger.Log.Info("Debug toggled", zap.Bool("enabled", renderer.Debug))
	case EventLevelChange:
		logger.Log.Info("Level change requested", zap.String("level", ev.Payload))
	case EventQuit:
		e.window.SetShouldClose(true)
	}
}

func (e *Engine) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	if w.GetMouseButton(glfw.MouseButtonRight) != glfw.Press {
		e.firstMouse = true
		return
	}
	if e.firstMouse {
		e.lastX, e.lastY = xpos, ypos
		e.firstMouse = false
		return
	}
	xoffset := xpos - e.lastX
	yoffset := e.lastY - ypos
	e.lastX, e.lastY = xpos, ypos
	e.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
}

// Throttle sleeps off the remainder of a frame budget; used when vsync is
// off and the logic thread ticks at a fixed rate.
func Throttle(start time.Time, budget time.Duration) {
	if elapsed := time.Since(start); elapsed < budget {
		time.Sleep(budget - elapsed)
	}
}
