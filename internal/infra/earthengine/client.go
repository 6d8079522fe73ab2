// Package earthengine talks to the Earth Engine REST API to compute vegetation
// index means and to publish NDVI map tiles and thumbnails.
package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/pkg/lazy"
)

const (
	defaultBaseURL       = "https://earthengine.googleapis.com"
	defaultHighVolumeURL = "https://earthengine-highvolume.googleapis.com"
	scope                = "https://www.googleapis.com/auth/earthengine"
)

// Config describes the collection and geometry parameters of every request.
type Config struct {
	Project         string
	BaseURL         string
	HighVolumeURL   string
	ServiceAccount  string
	KeyFile         string
	Timeout         time.Duration
	Collection      string
	Band            string
	ScaleFactor     float64
	RadiusMeters    float64
	ScaleMeters     float64
	MaxPixels       int64
	ThumbnailBuffer float64
	ThumbnailPixels int
	Palette         []string

	// HTTPClient, when set, is used as-is against BaseURL and skips
	// credential discovery.
	HTTPClient *http.Client
}

type session struct {
	baseURL    string
	httpClient *http.Client
	mode       string
}

// Client implements bloom.IndexProvider and bloom.ImageryProvider.
type Client struct {
	cfg    Config
	conn   lazy.Value[*session]
	logger *slog.Logger
}

var (
	_ bloom.IndexProvider   = (*Client)(nil)
	_ bloom.ImageryProvider = (*Client)(nil)
)

var errEmptyResult = errors.New("earth engine returned an empty result")

// NewClient builds a client. No network traffic happens until the first call.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.HighVolumeURL) == "" {
		cfg.HighVolumeURL = defaultHighVolumeURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.HighVolumeURL = strings.TrimRight(cfg.HighVolumeURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{cfg: cfg, logger: logger.With("component", "earthengine")}
}

// MeanIndex computes the mean scaled index in a neighbourhood of point over year.
func (c *Client) MeanIndex(ctx context.Context, p bloom.GeoPoint, year int) (float64, error) {
	geometry := point(p.Longitude, p.Latitude)
	collection := yearCollection(c.cfg.Collection, geometry, year)
	image := scaledComposite(collection, "mean", c.cfg.Band, c.cfg.ScaleFactor)
	value := regionMean(image, buffer(geometry, c.cfg.RadiusMeters), c.cfg.Band, c.cfg.ScaleMeters, c.cfg.MaxPixels)

	var out struct {
		Result *float64 `json:"result"`
	}
	if err := c.post(ctx, "value:compute", map[string]any{"expression": newExpression(value)}, &out); err != nil {
		return 0, err
	}
	if out.Result == nil {
		return 0, errEmptyResult
	}
	return *out.Result, nil
}

// Overlay publishes a median composite for year and returns its tile URL
// template and a thumbnail URL for the area around point.
func (c *Client) Overlay(ctx context.Context, p bloom.GeoPoint, year int) (bloom.Overlay, error) {
	geometry := point(p.Longitude, p.Latitude)
	composite := scaledComposite(yearCollection(c.cfg.Collection, geometry, year), "median", c.cfg.Band, c.cfg.ScaleFactor)
	vis := map[string]any{
		"ranges":        []map[string]float64{{"min": 0, "max": 1}},
		"paletteColors": c.cfg.Palette,
	}

	var mapOut struct {
		Name string `json:"name"`
	}
	mapReq := map[string]any{
		"expression":           newExpression(composite),
		"fileFormat":           "AUTO_JPEG_PNG",
		"visualizationOptions": vis,
	}
	if err := c.post(ctx, "maps", mapReq, &mapOut); err != nil {
		return bloom.Overlay{}, fmt.Errorf("create map: %w", err)
	}

	region := bounds(buffer(geometry, c.cfg.ThumbnailBuffer))
	var thumbOut struct {
		Name string `json:"name"`
	}
	thumbReq := map[string]any{
		"expression":           newExpression(clipForThumbnail(composite, region, c.cfg.ThumbnailPixels)),
		"fileFormat":           "PNG",
		"visualizationOptions": vis,
	}
	if err := c.post(ctx, "thumbnails", thumbReq, &thumbOut); err != nil {
		return bloom.Overlay{}, fmt.Errorf("create thumbnail: %w", err)
	}
	if mapOut.Name == "" || thumbOut.Name == "" {
		return bloom.Overlay{}, errEmptyResult
	}

	base := c.connect(ctx).baseURL
	return bloom.Overlay{
		TileURL:      fmt.Sprintf("%s/v1/%s/tiles/{z}/{x}/{y}", base, mapOut.Name),
		ThumbnailURL: fmt.Sprintf("%s/v1/%s:getPixels", base, thumbOut.Name),
	}, nil
}

func (c *Client) post(ctx context.Context, method string, payload any, out any) error {
	sess := c.connect(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/%s/%s", sess.baseURL, projectPath(c.cfg.Project), method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := sess.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed (%s session): %w", method, sess.mode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%s request error: status=%d body=%s", method, resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

// connect establishes the session once. Whatever the first attempt yields is
// kept for the process lifetime.
func (c *Client) connect(ctx context.Context) *session {
	sess, _ := c.conn.Get(ctx, func(ctx context.Context) (*session, error) {
		return c.newSession(context.WithoutCancel(ctx)), nil
	})
	return sess
}

func (c *Client) newSession(ctx context.Context) *session {
	if c.cfg.HTTPClient != nil {
		return &session{baseURL: c.cfg.BaseURL, httpClient: c.cfg.HTTPClient, mode: "custom"}
	}

	if c.cfg.ServiceAccount != "" && c.cfg.KeyFile != "" {
		if data, err := os.ReadFile(c.cfg.KeyFile); err == nil {
			creds, err := google.CredentialsFromJSON(ctx, data, scope)
			if err == nil {
				c.logger.Info("earth engine session established", "mode", "service_account", "account", c.cfg.ServiceAccount)
				return &session{baseURL: c.cfg.BaseURL, httpClient: oauth2.NewClient(ctx, creds.TokenSource), mode: "service_account"}
			}
			c.logger.Warn("service account credentials rejected", "error", err)
		} else {
			c.logger.Warn("service account key file unreadable", "path", c.cfg.KeyFile, "error", err)
		}
	}

	creds, err := google.FindDefaultCredentials(ctx, scope)
	if err == nil {
		c.logger.Info("earth engine session established", "mode", "default_credentials")
		return &session{baseURL: c.cfg.BaseURL, httpClient: oauth2.NewClient(ctx, creds.TokenSource), mode: "default_credentials"}
	}

	c.logger.Warn("no earth engine credentials, using unauthenticated high-volume endpoint", "error", err)
	return &session{baseURL: c.cfg.HighVolumeURL, httpClient: &http.Client{}, mode: "anonymous"}
}
