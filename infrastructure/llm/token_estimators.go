package llm

import (
	"strings"
	"sync"
)

// WordBasedTokenEstimator estimates tokens from the word count using a
// configurable tokens-per-word ratio. Fast and good enough for cost
// estimation on prose-heavy prompts.
type WordBasedTokenEstimator struct{ TokensPerWord float64 }

// NewWordBasedTokenEstimator creates a word-based token estimator.
// Typical values are around 0.75 tokens per word for English.
func NewWordBasedTokenEstimator(tokensPerWord float64) *WordBasedTokenEstimator {
	if tokensPerWord <= 0 {
		tokensPerWord = 0.75
	}
	return &WordBasedTokenEstimator{TokensPerWord: tokensPerWord}
}

// EstimateTokens calculates a token count from the whitespace-split
// word count.
func (e *WordBasedTokenEstimator) EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * e.TokensPerWord)
}

// CharacterBasedTokenEstimator estimates tokens from the character
// count. More stable than word counting for JSON-heavy output.
type CharacterBasedTokenEstimator struct{ charsPerToken float64 }

// NewCharacterBasedTokenEstimator creates a character-based estimator.
// Typical values are around 4.0 characters per token.
func NewCharacterBasedTokenEstimator(charactersPerToken float64) *CharacterBasedTokenEstimator {
	if charactersPerToken <= 0 {
		charactersPerToken = 4.0
	}
	return &CharacterBasedTokenEstimator{charsPerToken: charactersPerToken}
}

// EstimateTokens divides the character count by the configured ratio.
func (e *CharacterBasedTokenEstimator) EstimateTokens(text string) int {
	return int(float64(len(text)) / e.charsPerToken)
}

// CachingTokenEstimator wraps another estimator with a bounded cache.
// Evaluator prompts share large template prefixes, so repeated
// estimation of identical text is common.
type CachingTokenEstimator struct {
	mu         sync.Mutex
	underlying TokenEstimator
	cache      map[string]int
	maxSize    int
}

// NewCachingTokenEstimator creates a caching wrapper for any
// TokenEstimator. maxSize bounds memory use; entries beyond it are
// simply not cached.
func NewCachingTokenEstimator(underlying TokenEstimator, maxSize int) *CachingTokenEstimator {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &CachingTokenEstimator{
		underlying: underlying,
		cache:      make(map[string]int),
		maxSize:    maxSize,
	}
}

// EstimateTokens checks the cache before delegating to the underlying
// estimator. Safe for concurrent use.
func (e *CachingTokenEstimator) EstimateTokens(text string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tokens, exists := e.cache[text]; exists {
		return tokens
	}

	tokens := e.underlying.EstimateTokens(text)
	if len(e.cache) < e.maxSize {
		e.cache[text] = tokens
	}
	return tokens
}

// CacheSize returns the number of cached estimation results.
func (e *CachingTokenEstimator) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}
