package codec

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/danielpatrickdp/persona-diversity/internal/embedding"
)

var _ embedding.Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder embeds texts with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

type openAIOptions struct {
	baseURL string
	model   string
}

// OpenAIOption configures an OpenAIEmbedder.
type OpenAIOption func(*openAIOptions)

// WithBaseURL points the client at a compatible API, e.g. a local proxy.
func WithBaseURL(u string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = u }
}

// WithModel overrides the embedding model.
func WithModel(m string) OpenAIOption {
	return func(o *openAIOptions) { o.model = m }
}

// NewOpenAIEmbedder creates an embedder using text-embedding-3-small by default.
func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) *OpenAIEmbedder {
	o := openAIOptions{model: string(openai.SmallEmbedding3)}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(o.model),
	}
}

// Embed requests embeddings for all texts in one call. Vectors are returned
// in input order regardless of the order of the response data.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || out[d.Index] != nil {
			return nil, fmt.Errorf("create embeddings: bad index %d: %w", d.Index, embedding.ErrEmbeddingShape)
		}
		vec := make([]float64, len(d.Embedding))
		for j, x := range d.Embedding {
			vec[j] = float64(x)
		}
		out[d.Index] = vec
	}
	for i, vec := range out {
		if vec == nil {
			return nil, fmt.Errorf("create embeddings: missing vector %d: %w", i, embedding.ErrEmbeddingShape)
		}
	}
	return out, nil
}
