package locale

// Message 是一条双语提示
type Message struct {
	Chinese string
	English string
}

// In returns the text matching the request language, defaulting to Chinese.
func (m Message) In(language string) string {
	return Pick(language, m.English, m.Chinese)
}

// Pick returns the text matching the request language, defaulting to Chinese.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return chinese
	}
	if chinese != "" {
		return chinese
	}
	return english
}
