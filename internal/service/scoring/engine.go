package scoring

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tmc/langchaingo/llms"

	"github.com/octobees/crm-leads/internal/entity"
)

const maxResponseTokens = 1000

// ErrModelNotConfigured indicates the model API key was not provided.
var ErrModelNotConfigured = errors.New("ANTHROPIC_API_KEY not configured")

// Result is the outcome of a single scoring run.
type Result struct {
	Score           int
	Justification   string
	NextAction      string
	WebsiteAnalyzed bool
}

// Engine runs the one-shot scoring pipeline: website fetch, email analysis,
// prompt construction, model call and response parsing. Persistence is left
// to the caller so a failed run never writes partial fields.
type Engine struct {
	llm        llms.Model
	summarizer *Summarizer
}

// NewEngine builds an engine. The model may be nil when no API key is
// configured; scoring then fails with ErrModelNotConfigured.
func NewEngine(llm llms.Model, summarizer *Summarizer) *Engine {
	if summarizer == nil {
		summarizer = NewSummarizer(nil)
	}
	return &Engine{llm: llm, summarizer: summarizer}
}

// ScoreLead evaluates the lead and returns the parsed scoring result.
func (e *Engine) ScoreLead(ctx context.Context, lead *entity.Lead) (Result, error) {
	if lead == nil {
		return Result{}, fmt.Errorf("lead payload is nil")
	}
	if e.llm == nil {
		return Result{}, ErrModelNotConfigured
	}

	log.Printf("scoring lead %d (%s): analyzing website %q", lead.ID, lead.CompanyName, lead.Website)
	site := e.summarizer.Summarize(ctx, lead.Website)
	switch {
	case site == nil:
		log.Printf("scoring lead %d: no website to analyze", lead.ID)
	case site.Failed():
		log.Printf("scoring lead %d: website fetch failed: %s", lead.ID, site.FetchError)
	default:
		log.Printf("scoring lead %d: website fetched, title=%q", lead.ID, truncateRunes(site.Title, 80))
	}

	emailAnalysis := AnalyzeEmailDomain(lead.ContactEmail, lead.Website)
	log.Printf("scoring lead %d: email analysis: %s", lead.ID, emailAnalysis)

	prompt := BuildPrompt(lead, emailAnalysis, site)

	response, err := llms.GenerateFromSinglePrompt(ctx, e.llm, prompt, llms.WithMaxTokens(maxResponseTokens))
	if err != nil {
		return Result{}, fmt.Errorf("model call: %w", err)
	}

	parsed := ParseResponse(response)
	log.Printf("scoring lead %d: final score %d/100", lead.ID, parsed.Score)

	return Result{
		Score:           parsed.Score,
		Justification:   parsed.Justification,
		NextAction:      parsed.NextAction,
		WebsiteAnalyzed: site != nil && !site.Failed(),
	}, nil
}
