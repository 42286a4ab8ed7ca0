// ABOUTME: AI strategic commentary over the cycle's summary facts
// ABOUTME: Returns a tagged Ok/Unavailable result so rendering branches explicitly
package insights

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harperreed/crmdigest/crm"
)

const systemPrompt = "You are a professional sales analyst providing concise executive insights."

// Facts is the summary data handed to the model. Built from aggregates,
// never raw rows.
type Facts struct {
	Summary       crm.Summary
	TopBrands     []crm.BrandRank
	HighValueOpen int
	Threshold     float64
	Currency      string
}

// Result is the outcome of an insight request. The report renders
// Result.HTML when OK, and a visible fallback naming Reason otherwise.
// The enrichment may fail; the report never does because of it.
type Result struct {
	HTML   string
	Reason string
}

// OK reports whether insight HTML is available.
func (r Result) OK() bool {
	return r.Reason == ""
}

// Unavailable builds a failed Result.
func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

// Generator requests strategic commentary from the OpenAI chat API.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a generator, or nil when no API key is
// configured (callers treat nil as permanently unavailable).
func NewGenerator(apiKey, model string) *Generator {
	if apiKey == "" {
		return nil
	}
	return &Generator{client: openai.NewClient(apiKey), model: model}
}

// Generate requests an HTML bulleted list of insights. Every failure
// path collapses into an Unavailable result; nothing propagates.
func (g *Generator) Generate(ctx context.Context, facts Facts) Result {
	if g == nil {
		return Unavailable("no OpenAI API key configured")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(facts)},
		},
	})
	if err != nil {
		return Unavailable(fmt.Sprintf("insight request failed: %v", err))
	}
	if len(resp.Choices) == 0 {
		return Unavailable("insight response was empty")
	}

	return Result{HTML: strings.TrimSpace(resp.Choices[0].Message.Content)}
}

// BuildPrompt renders the summary facts into the analyst prompt.
func BuildPrompt(facts Facts) string {
	cur := facts.Currency
	if cur == "" {
		cur = "RM"
	}

	var owners strings.Builder
	for _, owner := range facts.Summary.Owners {
		stats := facts.Summary.PerOwner[owner]
		fmt.Fprintf(&owners, "- %s: %s %.2f total, %d open deals.\n", owner, cur, stats.TotalValue, stats.OpenCount)
	}

	var brands strings.Builder
	for i, rank := range facts.TopBrands {
		if i > 0 {
			brands.WriteString(", ")
		}
		fmt.Fprintf(&brands, "%s (%d)", rank.Brand, rank.Count)
	}

	return fmt.Sprintf(`As a sales strategy assistant, provide 3 brief, high-impact strategic insights based on this CRM data:
- Total Pipeline Value: %s %.2f
- Owner Performance:
%s- High-Value Deals (>%s %.0f) pending: %d
- Current Top Brands being pitched: %s

Analyze the distribution and value. Keep each point professional, concise, and action-oriented.
Return the output as an HTML bulleted list (<ul> and <li>).
Do not include any other text before or after the list.`,
		cur, facts.Summary.TotalValue,
		owners.String(),
		cur, facts.Threshold, facts.HighValueOpen,
		brands.String())
}
