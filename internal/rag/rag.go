package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"smartdocs/internal/llmservice"
	"smartdocs/internal/models"
	"smartdocs/internal/retriever"
)

var thinkRe = regexp.MustCompile(models.ThinkTag)

// RAG answers questions grounded in retrieved chunks.
type RAG struct {
	retriever *retriever.Retriever
	llm       llmservice.Generator
}

func NewRAG(r *retriever.Retriever, llm llmservice.Generator) *RAG {
	return &RAG{retriever: r, llm: llm}
}

// Answer retrieves the chunks most relevant to the question, feeds them to
// the LLM as context and returns the generated answer. When nothing scores
// above the threshold the LLM is still invoked with empty context and is
// expected to say it cannot answer.
func (r *RAG) Answer(ctx context.Context, question string) (string, error) {
	chunks, err := r.retriever.TopChunks(ctx, question)
	if err != nil {
		return "", err
	}

	var contextText strings.Builder
	for _, chunk := range chunks {
		contextText.WriteString(chunk.Content)
		contextText.WriteString("\n\n")
	}
	log.Debug().Int("chunks", len(chunks)).Msg("built answer context")

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText.String(), question)
	answer, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(thinkRe.ReplaceAllString(answer, "")), nil
}
