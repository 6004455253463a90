package cryptox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "cryptox-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}
