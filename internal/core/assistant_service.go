package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/heathtechnical/FlareTracker-sub000/internal/insights"
)

const (
	defaultAssistantModelName = "gemini-1.5-flash-latest"

	assistantSystemInstruction = "You are a helpful health-tracking assistant. Answer questions using the " +
		"trigger analysis provided for the user's tracked conditions. The correlations are descriptive " +
		"statistics from small self-reported samples, not medical diagnoses; say so when relevant and " +
		"never give medical advice beyond suggesting the user discuss patterns with their clinician. " +
		"If the analysis does not cover the question, clearly say you don't have the information."
)

// AssistantService answers one-shot questions about the user's trigger
// analysis via Gemini. Construction fails only on client setup; callers that
// have no API key should not construct one at all.
type AssistantService struct {
	client         *genai.Client
	insightService *InsightService
}

func NewAssistantService(apiKey string, insightService *InsightService) (*AssistantService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &AssistantService{client: client, insightService: insightService}, nil
}

func (s *AssistantService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Ask recomputes the user's insights, renders them as context, and asks the
// model the user's question grounded in that context.
func (s *AssistantService) Ask(ctx context.Context, userID int64, question string) (string, error) {
	conditionInsights, err := s.insightService.GetAllConditionInsights(userID)
	if err != nil {
		return "", fmt.Errorf("failed to compute insights for assistant context: %w", err)
	}

	prompt := fmt.Sprintf("Here is the current trigger analysis for my tracked conditions:\n\n"+
		"--- ANALYSIS START ---\n%s--- ANALYSIS END ---\n\nMy question: %s",
		renderInsights(conditionInsights), question)

	model := s.client.GenerativeModel(defaultAssistantModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(assistantSystemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		return "I received an empty or non-text response, please try rephrasing your question.", nil
	}
	return responseText.String(), nil
}

// renderInsights formats the computed insights as a plain-text context block.
func renderInsights(conditionInsights []insights.ConditionInsight) string {
	var b strings.Builder
	for _, ci := range conditionInsights {
		fmt.Fprintf(&b, "Condition: %s (%d check-ins)\n", ci.ConditionName, ci.SampleSize)
		if len(ci.Triggers) == 0 && len(ci.ProtectiveFactors) == 0 {
			b.WriteString("  No statistically notable factors yet.\n\n")
			continue
		}
		for _, t := range ci.Triggers {
			fmt.Fprintf(&b, "  Trigger: %s (correlation %.2f, confidence %.2f, avg severity %.1f with vs %.1f without)\n",
				t.Factor, t.Correlation, t.Confidence, t.AvgSeverityWith, t.AvgSeverityWithout)
		}
		for _, p := range ci.ProtectiveFactors {
			fmt.Fprintf(&b, "  Protective: %s (correlation %.2f, confidence %.2f, avg severity %.1f with vs %.1f without)\n",
				p.Factor, p.Correlation, p.Confidence, p.AvgSeverityWith, p.AvgSeverityWithout)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "No tracked conditions yet.\n"
	}
	return b.String()
}
