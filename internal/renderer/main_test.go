package renderer

import (
	"os"
	"testing"

	"Citadel3D/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
