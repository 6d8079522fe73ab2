package chatbot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bloom-backend/pkg/logger"
)

var hibiscusRow = ReferenceRow{Species: "Hibiscus", Country: "India", BloomStart: "March", BloomEnd: "May", Notes: "Peak in April."}

func TestAskKeywordMatch(t *testing.T) {
	svc := NewService(DefaultConfig(), &stubSource{rows: []ReferenceRow{hibiscusRow}}, nil, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "When does Hibiscus bloom?"})
	require.NoError(t, err)
	require.Equal(t, Response{Answer: "Hibiscus blooms from March to May. Peak in April."}, resp)
}

func TestAskFallbackWithoutMatch(t *testing.T) {
	svc := NewService(DefaultConfig(), &stubSource{rows: []ReferenceRow{hibiscusRow}}, nil, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "Tell me about tulips in Holland"})
	require.NoError(t, err)
	require.Equal(t, Response{Answer: "Approximate bloom season: March-April"}, resp)
}

func TestAskFallbackWhenTableFailsToLoad(t *testing.T) {
	source := &stubSource{err: errors.New("corrupt file")}
	svc := NewService(DefaultConfig(), source, nil, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "Hibiscus?"})
	require.NoError(t, err)
	require.Equal(t, "Approximate bloom season: March-April", resp.Answer)

	_, _ = svc.Ask(context.Background(), Request{Question: "Hibiscus?"})
	require.Equal(t, 1, source.calls)
}

func TestAskSemanticMatch(t *testing.T) {
	lotus := ReferenceRow{Species: "Lotus", BloomStart: "July", BloomEnd: "August", Notes: "Ponds."}
	encoder := &stubEncoder{vector: []float32{0.1, 0.2}}
	index := &stubIndex{row: lotus, found: true}
	svc := NewService(DefaultConfig(), &stubSource{rows: []ReferenceRow{hibiscusRow}}, &Semantic{Encoder: encoder, Index: index}, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "water flower with big leaves"})
	require.NoError(t, err)
	require.Equal(t, "Lotus blooms from July to August. Ponds.", resp.Answer)
	require.Equal(t, "water flower with big leaves", encoder.lastText)
	require.Equal(t, []float32{0.1, 0.2}, index.lastVector)
}

func TestAskSemanticFailureFallsThrough(t *testing.T) {
	encoder := &stubEncoder{err: errors.New("encoder offline")}
	svc := NewService(DefaultConfig(), &stubSource{}, &Semantic{Encoder: encoder, Index: &stubIndex{}}, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "anything"})
	require.NoError(t, err)
	require.Equal(t, "Approximate bloom season: March-April", resp.Answer)
}

func TestAskSkipsSemanticWhenIndexMisses(t *testing.T) {
	svc := NewService(DefaultConfig(), nil, &Semantic{Encoder: &stubEncoder{vector: []float32{1}}, Index: &stubIndex{}}, logger.Discard())

	resp, err := svc.Ask(context.Background(), Request{Question: "anything"})
	require.NoError(t, err)
	require.Equal(t, "Approximate bloom season: March-April", resp.Answer)
}

func TestWarmUpLoadsTableOnce(t *testing.T) {
	source := &stubSource{rows: []ReferenceRow{hibiscusRow}}
	svc := NewService(DefaultConfig(), source, nil, logger.Discard())

	require.NoError(t, svc.WarmUp(context.Background()))
	_, err := svc.Ask(context.Background(), Request{Question: "hibiscus"})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)
}

type stubSource struct {
	rows  []ReferenceRow
	err   error
	calls int
}

func (s *stubSource) Load(context.Context) ([]ReferenceRow, error) {
	s.calls++
	return s.rows, s.err
}

type stubEncoder struct {
	vector   []float32
	err      error
	lastText string
}

func (e *stubEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	e.lastText = text
	return e.vector, e.err
}

type stubIndex struct {
	row        ReferenceRow
	found      bool
	err        error
	lastVector []float32
}

func (i *stubIndex) Nearest(_ context.Context, vector []float32) (ReferenceRow, bool, error) {
	i.lastVector = vector
	return i.row, i.found, i.err
}
