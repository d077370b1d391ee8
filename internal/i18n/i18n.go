// Package i18n provides internationalization support for the application.
package i18n

import (
	"context"
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var bundle *i18n.Bundle

// supported lists the shipped locales, default first.
var supported = []language.Tag{language.English, language.SimplifiedChinese}

var matcher = language.NewMatcher(supported)

// Init initializes the i18n bundle.
// Should be called when the application starts.
func Init() error {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(localeFS, "locales/en.toml"); err != nil {
		return fmt.Errorf("failed to load en.toml: %w", err)
	}
	if _, err := bundle.LoadMessageFileFS(localeFS, "locales/zh-CN.toml"); err != nil {
		return fmt.Errorf("failed to load zh-CN.toml: %w", err)
	}

	return nil
}

// NewLocalizer creates a new localizer for the given language
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// ParseLocale negotiates an Accept-Language value against the supported locales.
// Unknown or empty input falls back to "en".
func ParseLocale(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "en"
	}
	if supported[idx] == language.SimplifiedChinese {
		return "zh-CN"
	}
	return "en"
}

// T translates a message with the given localizer
func T(localizer *i18n.Localizer, msgID string) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: msgID,
	})
	if err != nil {
		return msgID // fallback to key
	}
	return msg
}

// TWithData translates a message with template data
func TWithData(localizer *i18n.Localizer, msgID string, data map[string]any) string {
	if len(data) == 0 {
		return T(localizer, msgID)
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
	if err != nil {
		return msgID
	}
	return msg
}

// TFields translates every value of a field -> message id map.
func TFields(localizer *i18n.Localizer, fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for field, msgID := range fields {
		out[field] = T(localizer, msgID)
	}
	return out
}

// ========== context.Context related functions ==========

// contextKey is the type for keys used to store values in context.Context
type contextKey string

const (
	// ContextKeyLocalizer is the key for Localizer in context.Context
	ContextKeyLocalizer contextKey = "i18n.localizer"
	// ContextKeyLocale is the key for the locale string in context.Context
	ContextKeyLocale contextKey = "i18n.locale"
)

// WithLocalizer stores a Localizer in context.Context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ContextKeyLocalizer, localizer)
}

// WithLocale stores a locale string in context.Context
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ContextKeyLocale, locale)
}

// LocalizerFromContext retrieves a Localizer from context.Context
// If not found, returns an English Localizer
func LocalizerFromContext(ctx context.Context) *i18n.Localizer {
	if localizer, ok := ctx.Value(ContextKeyLocalizer).(*i18n.Localizer); ok {
		return localizer
	}
	return NewLocalizer("en")
}

// LocaleFromContext retrieves a locale string from context.Context
// If not found, returns "en"
func LocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(ContextKeyLocale).(string); ok {
		return locale
	}
	return "en"
}

// Ctx is a convenient translation function for business logic
// It retrieves the Localizer directly from context.Context and translates the message
func Ctx(ctx context.Context, msgID string) string {
	return T(LocalizerFromContext(ctx), msgID)
}

// CtxWithData is a convenient translation function with data for business logic
func CtxWithData(ctx context.Context, msgID string, data map[string]any) string {
	return TWithData(LocalizerFromContext(ctx), msgID, data)
}
