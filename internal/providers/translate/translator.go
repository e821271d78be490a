// Package translate renders submitted text into spoken Cantonese ahead of
// synthesis. Providers are chained: when the primary backend fails the next
// one is tried, and callers treat a fully failed chain as non-fatal.
package translate

import (
	"context"
	"errors"
	"strings"
)

// Translator converts text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string, target string) (string, error)
}

// ErrNoProvider is returned when no backend in the chain produced output.
var ErrNoProvider = errors.New("translate: no provider available")

const cantonesePrompt = `请将以下内容翻译成粤语口语，适合朗读：

原文：%s

要求：
1. 只输出粤语翻译结果。
2. 使用粤语口语表达，不夹杂英文或普通话。
3. 保持原文意思和情感，语言流畅自然。
【粤语翻译】：`

// Chain tries each translator in order and returns the first success.
type Chain struct {
	providers []Translator
}

// NewChain builds a translator chain. Nil entries are skipped.
func NewChain(providers ...Translator) *Chain {
	filtered := make([]Translator, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			filtered = append(filtered, p)
		}
	}
	return &Chain{providers: filtered}
}

func (c *Chain) Translate(ctx context.Context, text string, target string) (string, error) {
	var lastErr error
	for _, p := range c.providers {
		out, err := p.Translate(ctx, text, target)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(out) != "" {
			return out, nil
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", ErrNoProvider
}

var _ Translator = (*Chain)(nil)
