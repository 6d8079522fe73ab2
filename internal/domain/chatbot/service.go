package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yanqian/bloom-backend/pkg/lazy"
	"github.com/yanqian/bloom-backend/pkg/metrics"
)

// Service answers bloom season questions.
type Service interface {
	Ask(ctx context.Context, req Request) (Response, error)
	WarmUp(ctx context.Context) error
}

type service struct {
	cfg      Config
	source   ReferenceSource
	table    lazy.Value[[]ReferenceRow]
	semantic lazy.Value[Semantic]
	logger   *slog.Logger
}

// NewService wires up the chatbot. semantic may be nil, in which case the
// semantic tier is skipped.
func NewService(cfg Config, source ReferenceSource, semantic *Semantic, logger *slog.Logger) Service {
	svc := &service{
		cfg:    cfg,
		source: source,
		logger: logger.With("component", "chatbot.service"),
	}
	if semantic != nil && semantic.Encoder != nil && semantic.Index != nil {
		svc.semantic.Publish(*semantic)
	}
	return svc
}

// Ask resolves a question by keyword match, then semantic match, then a
// fixed fallback. It never returns an error.
func (s *service) Ask(ctx context.Context, req Request) (Response, error) {
	question := strings.TrimSpace(req.Question)

	if answer, ok := s.keywordAnswer(ctx, question); ok {
		return s.answered(TierKeyword, answer), nil
	}
	if answer, ok := s.semanticAnswer(ctx, question); ok {
		return s.answered(TierSemantic, answer), nil
	}
	season := estimateBloomWindow(s.cfg.FallbackLatitude, s.cfg.FallbackLongitude, s.cfg.FallbackStartYear, s.cfg.FallbackEndYear)
	return s.answered(TierFallback, "Approximate bloom season: "+season), nil
}

// WarmUp loads the reference table ahead of the first question.
func (s *service) WarmUp(ctx context.Context) error {
	rows, err := s.rows(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("bloom reference table ready", "rows", len(rows))
	return nil
}

func (s *service) answered(tier Tier, answer string) Response {
	metrics.ChatbotAnswersTotal.WithLabelValues(string(tier)).Inc()
	s.logger.Debug("chatbot answered", "tier", tier)
	return Response{Answer: answer}
}

func (s *service) keywordAnswer(ctx context.Context, question string) (string, bool) {
	rows, err := s.rows(ctx)
	if err != nil {
		s.logger.Warn("keyword match skipped", "error", err)
		return "", false
	}
	row, ok := matchKeyword(question, rows)
	if !ok {
		return "", false
	}
	return formatAnswer(row), true
}

func (s *service) semanticAnswer(ctx context.Context, question string) (string, bool) {
	semantic, ok := s.semantic.Load()
	if !ok || question == "" {
		return "", false
	}
	if s.cfg.SemanticTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SemanticTimeout)
		defer cancel()
	}
	vector, err := semantic.Encoder.Encode(ctx, question)
	if err != nil {
		s.logger.Warn("semantic encode failed", "error", err)
		return "", false
	}
	if len(vector) == 0 {
		s.logger.Warn("semantic encode failed", "error", errors.New("empty embedding"))
		return "", false
	}
	row, found, err := semantic.Index.Nearest(ctx, vector)
	if err != nil {
		s.logger.Warn("semantic lookup failed", "error", err)
		return "", false
	}
	if !found {
		return "", false
	}
	return formatAnswer(row), true
}

// rows returns the reference table, loading it once. A table that fails to
// load is published empty so the failure is not retried per request.
func (s *service) rows(ctx context.Context) ([]ReferenceRow, error) {
	if rows, ok := s.table.Load(); ok {
		return rows, nil
	}
	if s.source == nil {
		return s.table.Publish([]ReferenceRow{}), nil
	}
	rows, err := s.source.Load(ctx)
	if err != nil {
		s.table.Publish([]ReferenceRow{})
		return nil, err
	}
	if rows == nil {
		rows = []ReferenceRow{}
	}
	return s.table.Publish(rows), nil
}
