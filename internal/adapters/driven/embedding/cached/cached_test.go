package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubelens/tubelens-cli/internal/adapters/driven/storage/memory"
)

// countingEmbedder records how many texts were actually sent to the
// provider.
type countingEmbedder struct {
	dims  int
	calls int
	texts []string
	err   error
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		e.texts = append(e.texts, text)
		vector := make([]float32, e.dims)
		vector[0] = float32(len(text))
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *countingEmbedder) Dimensions() int            { return e.dims }
func (e *countingEmbedder) ModelName() string          { return "counting" }
func (e *countingEmbedder) Ping(context.Context) error { return nil }
func (e *countingEmbedder) Close() error               { return nil }

func TestEmbed_CachesResult(t *testing.T) {
	inner := &countingEmbedder{dims: 3}
	svc := New(inner, memory.NewCache())

	ctx := context.Background()

	first, err := svc.Embed(ctx, "hello world")
	require.NoError(t, err)

	second, err := svc.Embed(ctx, "hello world")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestEmbed_DimensionMismatchIsMiss(t *testing.T) {
	inner := &countingEmbedder{dims: 3}
	cache := memory.NewCache()
	svc := New(inner, cache)

	// A stale entry from a different model.
	require.NoError(t, cache.Put(Key("hello"), []float32{1, 2}))

	vector, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vector, 3)
	assert.Equal(t, 1, inner.calls)

	// The stale entry was replaced.
	cached, ok := cache.Get(Key("hello"))
	require.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestEmbedBatch_OnlyMissesHitProvider(t *testing.T) {
	inner := &countingEmbedder{dims: 3}
	svc := New(inner, memory.NewCache())

	ctx := context.Background()

	_, err := svc.Embed(ctx, "cached")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	vectors, err := svc.EmbedBatch(ctx, []string{"cached", "fresh one", "fresh two"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 3)
	}

	// One extra provider call, carrying only the two misses.
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []string{"cached", "fresh one", "fresh two"}, inner.texts)
}

func TestEmbedBatch_FullyCachedSkipsProvider(t *testing.T) {
	inner := &countingEmbedder{dims: 2}
	svc := New(inner, memory.NewCache())

	ctx := context.Background()
	_, err := svc.EmbedBatch(ctx, []string{"a", "b"})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(ctx, []string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestEmbedBatch_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("provider down")
	inner := &countingEmbedder{dims: 2, err: boom}
	svc := New(inner, memory.NewCache())

	_, err := svc.EmbedBatch(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, boom)
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	inner := &countingEmbedder{dims: 2}
	svc := New(inner, memory.NewCache())

	vectors, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, 0, inner.calls)
}

func TestKey_StableAndDistinct(t *testing.T) {
	assert.Equal(t, Key("hello"), Key("hello"))
	assert.NotEqual(t, Key("hello"), Key("hello "))
	assert.Len(t, Key("anything"), 32)
}
