package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage 取 Accept-Language 中第一个可识别的语言，忽略 q 权重
func LanguageFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if language := NormalizeLanguage(tag); language != "" {
			return language
		}
	}
	return ""
}

// Resolve 按显式参数、Accept-Language 的顺序决定语言，默认中文
func Resolve(override, acceptLanguage string) string {
	if language := NormalizeLanguage(override); language != "" {
		return language
	}
	if language := LanguageFromAcceptLanguage(acceptLanguage); language != "" {
		return language
	}
	return LanguageChinese
}
