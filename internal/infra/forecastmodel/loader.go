package forecastmodel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
)

// ErrObjectNotFound is returned by an ObjectStore when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore fetches artifacts addressed as s3://bucket/key.
type ObjectStore interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader tries each candidate location in order and decodes the first artifact found.
type Loader struct {
	candidates []string
	objects    ObjectStore
	logger     *slog.Logger
}

var _ bloom.ModelLoader = (*Loader)(nil)

// NewLoader builds a loader. override, when set, is tried before the defaults.
// objects may be nil, in which case s3:// candidates are treated as missing.
func NewLoader(override string, defaults []string, objects ObjectStore, logger *slog.Logger) *Loader {
	candidates := make([]string, 0, len(defaults)+1)
	if strings.TrimSpace(override) != "" {
		candidates = append(candidates, strings.TrimSpace(override))
	}
	for _, path := range defaults {
		if strings.TrimSpace(path) != "" {
			candidates = append(candidates, path)
		}
	}
	return &Loader{
		candidates: candidates,
		objects:    objects,
		logger:     logger.With("component", "forecastmodel.loader"),
	}
}

// Load returns the first decodable artifact. When no candidate exists the
// error wraps bloom.ErrArtifactNotFound.
func (l *Loader) Load(ctx context.Context) (bloom.ForecastModel, error) {
	for _, path := range l.candidates {
		data, err := l.read(ctx, path)
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrObjectNotFound) {
			l.logger.Debug("forecast artifact candidate missing", "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read forecast artifact %s: %w", path, err)
		}
		model, err := Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		l.logger.Info("forecast artifact loaded", "path", path)
		return model, nil
	}
	return nil, fmt.Errorf("%w: set BLOOM_MODEL_PATH or place bloom_forecast_model.json in the working directory", bloom.ErrArtifactNotFound)
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	if bucket, key, ok := parseObjectPath(path); ok {
		if l.objects == nil {
			l.logger.Warn("object store not configured, skipping artifact candidate", "path", path)
			return nil, ErrObjectNotFound
		}
		return l.objects.Fetch(ctx, bucket, key)
	}
	return os.ReadFile(path)
}

func parseObjectPath(path string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(path, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
