package speech

import (
	"sort"

	"server/internal/domain"
)

// Voice is one entry of the synthesis voice catalog: a user-facing key plus
// the identifiers each engine understands.
type Voice struct {
	Key          string          `json:"key"`
	Language     domain.Language `json:"language"`
	DisplayName  string          `json:"displayName"`
	EdgeVoice    string          `json:"-"`
	GoogleVoice  string          `json:"-"`
	GoogleLocale string          `json:"-"`
}

// Catalog maps (language, voice key) pairs to engine voice identifiers. It is
// built once at startup and never mutated afterwards.
type Catalog struct {
	voices map[domain.Language]map[string]Voice
}

// DefaultCatalog returns the built-in voice table.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Voice{
		{Key: "young-lady", Language: domain.LanguageCantonese, DisplayName: "靓女", EdgeVoice: "zh-HK-HiuGaaiNeural", GoogleVoice: "yue-HK-Standard-A", GoogleLocale: "yue-HK"},
		{Key: "young-man", Language: domain.LanguageCantonese, DisplayName: "靓仔", EdgeVoice: "zh-HK-WanLungNeural", GoogleVoice: "yue-HK-Standard-B", GoogleLocale: "yue-HK"},
		{Key: "elderly-woman", Language: domain.LanguageCantonese, DisplayName: "阿嫲", EdgeVoice: "zh-HK-HiuMaanNeural", GoogleVoice: "yue-HK-Standard-C", GoogleLocale: "yue-HK"},
		{Key: "young-lady", Language: domain.LanguageMandarin, DisplayName: "晓晓", EdgeVoice: "zh-CN-XiaoxiaoNeural", GoogleVoice: "cmn-CN-Standard-A", GoogleLocale: "cmn-CN"},
		{Key: "young-man", Language: domain.LanguageMandarin, DisplayName: "云希", EdgeVoice: "zh-CN-YunxiNeural", GoogleVoice: "cmn-CN-Standard-B", GoogleLocale: "cmn-CN"},
		{Key: "elderly-woman", Language: domain.LanguageMandarin, DisplayName: "晓伊", EdgeVoice: "zh-CN-XiaoyiNeural", GoogleVoice: "cmn-CN-Standard-C", GoogleLocale: "cmn-CN"},
		{Key: "young-lady", Language: domain.LanguageEnglish, DisplayName: "Jenny", EdgeVoice: "en-US-JennyNeural", GoogleVoice: "en-US-Standard-C", GoogleLocale: "en-US"},
		{Key: "young-man", Language: domain.LanguageEnglish, DisplayName: "Guy", EdgeVoice: "en-US-GuyNeural", GoogleVoice: "en-US-Standard-B", GoogleLocale: "en-US"},
		{Key: "elderly-woman", Language: domain.LanguageEnglish, DisplayName: "Aria", EdgeVoice: "en-US-AriaNeural", GoogleVoice: "en-US-Standard-E", GoogleLocale: "en-US"},
	})
}

// NewCatalog builds a catalog from the given voices. Later duplicates of the
// same (language, key) pair win, which lets deployments override entries.
func NewCatalog(voices []Voice) *Catalog {
	c := &Catalog{voices: make(map[domain.Language]map[string]Voice)}
	for _, v := range voices {
		byKey, ok := c.voices[v.Language]
		if !ok {
			byKey = make(map[string]Voice)
			c.voices[v.Language] = byKey
		}
		byKey[v.Key] = v
	}
	return c
}

// Resolve returns the voice mapped to the (language, key) pair.
func (c *Catalog) Resolve(language domain.Language, key string) (Voice, bool) {
	byKey, ok := c.voices[language]
	if !ok {
		return Voice{}, false
	}
	v, ok := byKey[key]
	return v, ok
}

// Voices lists the catalog entries for a language, sorted by key.
func (c *Catalog) Voices(language domain.Language) []Voice {
	byKey, ok := c.voices[language]
	if !ok {
		return nil
	}
	out := make([]Voice, 0, len(byKey))
	for _, v := range byKey {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Languages lists languages with at least one voice, sorted.
func (c *Catalog) Languages() []domain.Language {
	out := make([]domain.Language, 0, len(c.voices))
	for lang := range c.voices {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
