package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"bherp/internal/core/id"
	"bherp/internal/core/types"
	"bherp/internal/domain/documents"
	"bherp/pkg/logger"
)

type stubCompleter struct {
	reply string
	err   error
	seen  string
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if len(req.Messages) > 0 {
		s.seen = req.Messages[0].Content
	}
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func testDoc() *documents.Document {
	d := documents.New(id.New(), documents.TypeInvoice)
	d.Number = "FA-2024-00001"
	d.Client = documents.ClientSnapshot{Name: "Gradnja d.o.o."}
	d.Items = []documents.DocItem{{
		ID:           id.New(),
		Description:  "cement",
		Quantity:     types.MustMoney("2"),
		PricePerUnit: types.MustMoney("100"),
		VATRate:      types.MustMoney("17"),
	}}
	return d
}

func TestAnalyzeDocument(t *testing.T) {
	t.Run("returns model answer", func(t *testing.T) {
		stub := &stubCompleter{reply: "Dokument izgleda ispravno."}
		svc := NewService(stub, logger.Default())

		got := svc.AnalyzeDocument(context.Background(), testDoc())
		assert.Equal(t, "Dokument izgleda ispravno.", got)
		assert.Contains(t, stub.seen, "FA-2024-00001")
		assert.Contains(t, stub.seen, "Gradnja d.o.o.")
	})

	t.Run("falls back on error", func(t *testing.T) {
		stub := &stubCompleter{err: errors.New("rate limited")}
		svc := NewService(stub, logger.Default())

		got := svc.AnalyzeDocument(context.Background(), testDoc())
		assert.Equal(t, "Analiza dokumenta trenutno nije dostupna.", got)
	})
}

func TestGenerateDescription(t *testing.T) {
	t.Run("returns model answer", func(t *testing.T) {
		stub := &stubCompleter{reply: "Visokokvalitetni cement za gradnju."}
		svc := NewService(stub, logger.Default())

		got := svc.GenerateDescription(context.Background(), "Cement 25kg", "BS")
		assert.Equal(t, "Visokokvalitetni cement za gradnju.", got)
		assert.Contains(t, stub.seen, "Cement 25kg")
		assert.Contains(t, stub.seen, "Bosanskom")
	})

	t.Run("english prompt", func(t *testing.T) {
		stub := &stubCompleter{reply: "ok"}
		svc := NewService(stub, logger.Default())
		svc.GenerateDescription(context.Background(), "Cement 25kg", "EN")
		assert.Contains(t, stub.seen, "Engleskom")
	})

	t.Run("falls back to product name on error", func(t *testing.T) {
		stub := &stubCompleter{err: errors.New("boom")}
		svc := NewService(stub, logger.Default())

		got := svc.GenerateDescription(context.Background(), "Cement 25kg", "BS")
		assert.Equal(t, "Cement 25kg", got)
	})
}
