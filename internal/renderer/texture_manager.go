package renderer

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"Citadel3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// GL_TEXTURE_MAX_ANISOTROPY_EXT; not part of the 4.1 core binding but
// universally supported.
const textureMaxAnisotropy = 0x84FE

// TextureStats carries cache counters for the telemetry log.
type TextureStats struct {
	TotalTextures  int
	ActiveTextures int
	CacheHits      int
	CacheMisses    int
}

// TextureManager loads and caches textures by source path so the same image
// is uploaded once no matter how many models reference it. Reference counts
// drive explicit release; GPU memory is never reclaimed by finalizers.
// After initialization it is only touched from the render thread, but the
// lock keeps stats reads safe from anywhere.
type TextureManager struct {
	mu       sync.RWMutex
	cache    map[string]uint32 // source key -> texture ID
	refCount map[uint32]int
	sources  map[uint32]string
	stats    TextureStats
}

func NewTextureManager() *TextureManager {
	return &TextureManager{
		cache:    make(map[string]uint32),
		refCount: make(map[uint32]int),
		sources:  make(map[uint32]string),
	}
}

// LoadTexture returns the cached texture for filePath or decodes and uploads
// it as RGBA8 with mipmaps and anisotropic filtering. Each call takes a
// reference.
func (tm *TextureManager) LoadTexture(filePath string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if id, ok := tm.cache[filePath]; ok {
		tm.refCount[id]++
		tm.stats.CacheHits++
		return id, nil
	}
	tm.stats.CacheMisses++

	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", filePath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", filePath, err)
	}

	id := uploadRGBA(toRGBA(img))
	tm.remember(filePath, id)

	logger.Log.Info("Texture loaded",
		zap.String("path", filePath),
		zap.Uint32("textureID", id),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return id, nil
}

// CreateTextureFromImage uploads an in-memory image, cached under the given
// key (used for embedded and procedural textures).
func (tm *TextureManager) CreateTextureFromImage(img image.Image, key string) (uint32, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if id, ok := tm.cache[key]; ok {
		tm.refCount[id]++
		tm.stats.CacheHits++
		return id, nil
	}
	tm.stats.CacheMisses++

	id := uploadRGBA(toRGBA(img))
	tm.remember(key, id)
	logger.Log.Debug("Texture created from image", zap.String("key", key), zap.Uint32("textureID", id))
	return id, nil
}

func (tm *TextureManager) remember(key string, id uint32) {
	tm.cache[key] = id
	tm.refCount[id] = 1
	tm.sources[id] = key
	tm.stats.TotalTextures++
	tm.stats.ActiveTextures++
}

// AddReference takes an extra reference on an already-loaded texture.
func (tm *TextureManager) AddReference(id uint32) {
	if id == 0 {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.refCount[id]++
}

// ReleaseTexture drops one reference and deletes the GPU texture when the
// count reaches zero.
func (tm *TextureManager) ReleaseTexture(id uint32) {
	if id == 0 {
		return
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()

	count, ok := tm.refCount[id]
	if !ok {
		logger.Log.Warn("Release of unknown texture", zap.Uint32("textureID", id))
		return
	}
	count--
	tm.refCount[id] = count
	if count > 0 {
		return
	}

	gl.DeleteTextures(1, &id)
	delete(tm.cache, tm.sources[id])
	delete(tm.refCount, id)
	delete(tm.sources, id)
	tm.stats.ActiveTextures--
	logger.Log.Debug("Texture freed", zap.Uint32("textureID", id))
}

func (tm *TextureManager) Stats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.stats
}

// Clear force-releases everything; shutdown only.
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for id := range tm.refCount {
		tex := id
		gl.DeleteTextures(1, &tex)
	}
	tm.cache = make(map[string]uint32)
	tm.refCount = make(map[uint32]int)
	tm.sources = make(map[uint32]string)
	tm.stats.ActiveTextures = 0
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func uploadRGBA(rgba *image.RGBA) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(rgba.Rect.Size().X), int32(rgba.Rect.Size().Y),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, textureMaxAnisotropy, 4)
	return id
}
