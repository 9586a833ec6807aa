package refiner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"smartdocs/internal/llmservice"
	"smartdocs/internal/models"
	"smartdocs/internal/parser"
	"smartdocs/internal/storage"
)

var thinkRe = regexp.MustCompile(models.ThinkTag)

// Refiner is the LLM-mediated precision pass: given a query and a shortlist
// of candidate documents it asks the model which documents actually satisfy
// the query. The model's answer is parsed as a strict JSON array, never
// trusted as free text.
type Refiner struct {
	llm   llmservice.Generator
	store storage.Store
}

func New(llm llmservice.Generator, store storage.Store) *Refiner {
	return &Refiner{llm: llm, store: store}
}

// Refine narrows candidates down to the documents the LLM judges relevant,
// returning each kept path with its raw bytes. Every returned path is drawn
// from the candidate set; paths the model invents are dropped.
func (f *Refiner) Refine(ctx context.Context, query string, candidates []string) ([]models.RefinedDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.ErrInvalidQuery
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make(map[string]string, len(candidates))
	for _, path := range candidates {
		text, err := f.loadText(path)
		if err != nil {
			return nil, err
		}
		texts[path] = text
	}

	docsJSON, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(models.RefinePromptTemplate, query, string(docsJSON))

	raw, err := f.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	paths, err := parsePathList(raw)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		allowed[c] = true
	}

	var refined []models.RefinedDocument
	seen := make(map[string]bool)
	for _, path := range paths {
		if !allowed[path] {
			log.Warn().Str("path", path).Msg("llm returned a path outside the candidate set, dropping")
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		data, err := f.store.Read(path)
		if err != nil {
			return nil, err
		}
		refined = append(refined, models.RefinedDocument{Path: path, Data: data})
	}
	return refined, nil
}

func (f *Refiner) loadText(path string) (string, error) {
	resolved := f.store.Resolve(path)
	if parser.Supported(resolved) {
		if !f.store.Exists(path) {
			return "", &models.NotFoundError{Path: path, Err: os.ErrNotExist}
		}
		// the file is there, so a failure here is broken content, not a miss
		text, err := parser.ExtractText(resolved)
		if err != nil {
			return "", fmt.Errorf("extracting %s: %w", path, err)
		}
		return text, nil
	}
	data, err := f.store.Read(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parsePathList validates the model output as a JSON array of strings.
// Reasoning tags and code fences are stripped first; anything else that is
// not a well-formed array is a RefinementParseError, never an empty result.
func parsePathList(raw string) ([]string, error) {
	cleaned := thinkRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "[") {
		return nil, &models.RefinementParseError{Raw: raw, Reason: "response is not a JSON array"}
	}
	var paths []string
	if err := json.Unmarshal([]byte(cleaned), &paths); err != nil {
		return nil, &models.RefinementParseError{Raw: raw, Reason: "response is not a JSON array of strings"}
	}
	return paths, nil
}
