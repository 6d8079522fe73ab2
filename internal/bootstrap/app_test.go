package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
	"github.com/yanqian/bloom-backend/internal/infra/config"
)

type stubBloom struct {
	bloom.Service
	warmErr error
	warmed  bool
}

func (s *stubBloom) WarmUp(context.Context) error {
	s.warmed = true
	return s.warmErr
}

type stubChatbot struct {
	chatbot.Service
	warmed bool
}

func (s *stubChatbot) WarmUp(context.Context) error {
	s.warmed = true
	return nil
}

func TestWarmUpToleratesMissingArtifact(t *testing.T) {
	bloomSvc := &stubBloom{warmErr: errors.New("forecast artifact not found")}
	chatSvc := &stubChatbot{}
	app := NewApp(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Server{}, bloomSvc, chatSvc)

	app.WarmUp(context.Background())

	require.True(t, bloomSvc.warmed)
	require.True(t, chatSvc.warmed)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	server := &http.Server{Addr: cfg.HTTP.Address, Handler: http.NotFoundHandler()}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, &stubBloom{}, &stubChatbot{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
}
