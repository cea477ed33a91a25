package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/frameguessr/frameguessr-server/internal/config"
	"github.com/frameguessr/frameguessr-server/internal/logger"
	"github.com/frameguessr/frameguessr-server/internal/prefs"
)

// PrefsStoreHandle wraps prefs.Store with Shutdownable.
type PrefsStoreHandle struct {
	*prefs.Store
}

// Shutdown implements do.Shutdownable.
func (h *PrefsStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvidePrefsStore provides the client preferences database.
func ProvidePrefsStore(i do.Injector) (*PrefsStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := filepath.Join(cfg.Data.BasePath, "prefs")
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, err
	}

	store, err := prefs.New(path, log.Logger)
	if err != nil {
		return nil, err
	}

	return &PrefsStoreHandle{Store: store}, nil
}
