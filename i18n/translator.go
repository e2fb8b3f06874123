package i18n

import (
	"sort"
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides values for the {placeholders} embedded in the message (for
// example "name", "attr", "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"missing":           "Field {name} is missing.",
		"missing_attribute": "Field {attr} is missing from object.",
		"null":              "{name}/{attr} cannot be null.",
		"invalid_type":      "{name} must be a {expected}. Got {got}.",
		"invalid_format":    "{name} is not a valid {expected}: {detail}",
		"invalid_value":     "{name} is invalid: {detail}",
		"unassignable":      "{name} cannot be assigned to {attr}: {detail}",
		"enum":              "{name} must be one of {choices}. Got {got}.",
		"too_short":         "{name} must have at least {min} items or characters.",
		"too_long":          "{name} must have at most {max} items or characters.",
		"too_small":         "{name} must be greater than or equal to {min}.",
		"too_big":           "{name} must be less than or equal to {max}.",
		"pattern":           "{name} must match {pattern}.",
	},
	"ja": {
		"missing":           "フィールド {name} がありません。",
		"missing_attribute": "オブジェクトにフィールド {attr} がありません。",
		"null":              "{name}/{attr} は null にできません。",
		"invalid_type":      "{name} は {expected} である必要があります。実際は {got} です。",
		"invalid_format":    "{name} は有効な {expected} ではありません: {detail}",
		"invalid_value":     "{name} が不正です: {detail}",
		"unassignable":      "{name} を {attr} に設定できません: {detail}",
		"enum":              "{name} は {choices} のいずれかである必要があります。実際は {got} です。",
		"too_short":         "{name} は {min} 以上の長さが必要です。",
		"too_long":          "{name} は {max} 以下の長さである必要があります。",
		"too_small":         "{name} は {min} 以上である必要があります。",
		"too_big":           "{name} は {max} 以下である必要があります。",
		"pattern":           "{name} は {pattern} に一致する必要があります。",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return Render(tmpl, data)
}

// Render substitutes {key} placeholders in tmpl with values from data.
// Unknown placeholders are left untouched.
func Render(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	// deterministic replacer construction
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// translatorBox lets atomic.Pointer hold any Translator implementation.
type translatorBox struct{ tr Translator }

var currentTranslator atomic.Pointer[translatorBox]

func init() { currentTranslator.Store(&translatorBox{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
// It is safe to call while conversions run; each message uses the
// translator current at the time it is rendered.
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator.Store(&translatorBox{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(&translatorBox{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().tr.Message(code, data)
}
