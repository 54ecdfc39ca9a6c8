package dashboard

import (
	"context"
	"errors"
	"strings"
)

var errNoTranslation = errors.New("dashboard: no translation")

// TranslationService exposes locale-aware translation of chrome labels.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`es-mx`) automatically fall back to their
// base language (`es`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	return fallback
}

// CatalogTranslator serves translations from an in-memory catalog keyed by
// locale, then message key.
type CatalogTranslator map[string]map[string]string

// Translate implements TranslationService.
func (c CatalogTranslator) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	byLocale := make(map[string]string, len(c))
	for loc, messages := range c {
		if value, ok := messages[key]; ok {
			byLocale[loc] = value
		}
	}
	if value := ResolveLocalizedValue(byLocale, locale, ""); value != "" {
		return value, nil
	}
	return "", errNoTranslation
}

// ToolLabelKey is the translation key of a tool label.
func ToolLabelKey(toolID string) string {
	return "dashboard.item.tool." + toolID
}

// Localize returns a copy of the chrome with tool labels translated. Missing
// translations keep the built-in label.
func (c Chrome) Localize(ctx context.Context, svc TranslationService, locale string) Chrome {
	if svc == nil {
		return c
	}
	out := c
	out.Tools = localizeTools(ctx, svc, locale, c.Tools)
	out.DrillToggle = localizeTool(ctx, svc, locale, c.DrillToggle)
	return out
}

func localizeTools(ctx context.Context, svc TranslationService, locale string, tools []Tool) []Tool {
	if tools == nil {
		return nil
	}
	out := make([]Tool, len(tools))
	for i, t := range tools {
		out[i] = localizeTool(ctx, svc, locale, t)
	}
	return out
}

func localizeTool(ctx context.Context, svc TranslationService, locale string, t Tool) Tool {
	t.Label = translateOrFallback(ctx, svc, ToolLabelKey(t.ID), locale, t.Label, nil)
	t.Children = localizeTools(ctx, svc, locale, t.Children)
	return t
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	return append(candidates, "default")
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
