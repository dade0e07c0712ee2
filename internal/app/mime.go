package app

import (
	"fmt"
	"log/slog"
	"mime"
	"sync"
)

// mediaTypes covers upload and export extensions that minimal images lack in /etc/mime.types.
var mediaTypes = map[string]string{
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv; charset=utf-8",
}

var registerOnce sync.Once

// registerMediaTypes installs mediaTypes for the local media file server.
func registerMediaTypes(logger *slog.Logger) {
	registerOnce.Do(func() {
		for ext, typ := range mediaTypes {
			if err := ensureMimeType(ext, typ); err != nil {
				logger.Warn("register mime type", slog.String("ext", ext), slog.Any("error", err))
			}
		}
	})
}

func ensureMimeType(ext, typ string) error {
	if mime.TypeByExtension(ext) != "" {
		return nil
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		return fmt.Errorf("app: mime %s: %w", ext, err)
	}
	return nil
}
