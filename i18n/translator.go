package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message (for example,
// "min" or "format"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"required":       "this field is required",
		"invalid_type":   "must be a {expected}",
		"too_small":      "must be at least {min}",
		"too_big":        "must be at most {max}",
		"too_short":      "must be at least {min} characters",
		"too_long":       "must be at most {max} characters",
		"pattern":        "does not match the expected pattern",
		"invalid_enum":   "must be one of the allowed values",
		"invalid_format": "must be a valid {format}",
		"too_few_items":  "must have at least {min} items",
		"too_many_items": "must have at most {max} items",
		"empty_list":     "required list is empty",
	},
	"ja": {
		"required":       "必須項目です",
		"invalid_type":   "{expected} を入力してください",
		"too_small":      "{min} 以上で入力してください",
		"too_big":        "{max} 以下で入力してください",
		"too_short":      "{min} 文字以上で入力してください",
		"too_long":       "{max} 文字以下で入力してください",
		"pattern":        "形式が正しくありません",
		"invalid_enum":   "許可された値ではありません",
		"invalid_format": "{format} の形式が正しくありません",
		"too_few_items":  "{min} 件以上必要です",
		"too_many_items": "{max} 件以下にしてください",
		"empty_list":     "必須リストが空です",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

// New returns the built-in Translator for lang ("en" or "ja"). Unknown
// languages fall back to English.
func New(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
