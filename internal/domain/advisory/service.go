// Package advisory generates document analysis and product descriptions
// with a chat completion model. Failures degrade to a fallback text so
// the advisory feature can never break a business flow.
package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"bherp/internal/domain/documents"
	"bherp/pkg/logger"
)

// Completer is the chat completion surface of the OpenAI client, kept
// narrow so tests can stub it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Service provides advisory text generation.
type Service struct {
	client Completer
	model  string
	logger *logger.Logger
}

// NewService creates the advisory service.
func NewService(client Completer, log *logger.Logger) *Service {
	return &Service{
		client: client,
		model:  openai.GPT4oMini,
		logger: log.WithComponent("advisory"),
	}
}

// AnalyzeDocument asks the model to review a document summary against
// FBiH VAT rules. Returns a fallback message when the model call fails.
func (s *Service) AnalyzeDocument(ctx context.Context, doc *documents.Document) string {
	prompt := fmt.Sprintf(
		"Analiziraj ovaj rezime ERP dokumenta i daj savjete za optimizaciju "+
			"ili provjeri potencijalne greške u skladu sa BH zakonima (FBiH): %s",
		summarize(doc),
	)

	answer, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.WithContext(ctx).Warnw("document analysis failed", "error", err)
		return "Analiza dokumenta trenutno nije dostupna."
	}
	return answer
}

// GenerateDescription produces a product description in Bosnian or
// English. Falls back to the bare product name on failure.
func (s *Service) GenerateDescription(ctx context.Context, productName, lang string) string {
	language := "Bosanskom"
	if strings.EqualFold(lang, "EN") {
		language = "Engleskom"
	}

	prompt := fmt.Sprintf(
		"Generiši profesionalan opis za artikal %q na jeziku %s.",
		productName, language,
	)

	answer, err := s.complete(ctx, prompt)
	if err != nil {
		s.logger.WithContext(ctx).Warnw("description generation failed", "error", err)
		return productName
	}
	return answer
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// summarize renders the document facts the model needs: type, number,
// client, totals per rate and overheads.
func summarize(doc *documents.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tip: %s, broj: %s, klijent: %s", doc.Type, doc.Number, doc.Client.Name)
	if doc.TaxPeriod != "" {
		fmt.Fprintf(&b, ", period: %s", doc.TaxPeriod)
	}

	totals := doc.Totals()
	fmt.Fprintf(&b, ". Osnovica: %s, PDV: %s, ukupno: %s %s",
		totals.Subtotal, totals.VAT, totals.GrandTotal, doc.Currency)

	if doc.IsCalculation() {
		fmt.Fprintf(&b, ". Zavisni troškovi: %s", doc.OverheadCosts().Total())
	}

	fmt.Fprintf(&b, ". Stavke: %d", len(doc.Items))
	return b.String()
}
