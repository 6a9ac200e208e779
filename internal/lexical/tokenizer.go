package lexical

import (
	"regexp"
	"strings"
)

// TokenSet is a set of lemma tokens extracted from a document.
type TokenSet map[string]struct{}

// Contains reports membership.
func (s TokenSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens in the set.
func (s TokenSet) Len() int { return len(s) }

var nonLetterPattern = regexp.MustCompile(`[^a-záéíóúüñA-ZÁÉÍÓÚÜÑ\s]`)

// Words that carry syllabus structure rather than course content. They
// survive the stopword list, so they get filtered after lemmatization.
var boilerplateLemmas = map[string]struct{}{
	"unidad":   {},
	"capitulo": {},
	"tema":     {},
	"semana":   {},
	"clase":    {},
	"docente":  {},
	"alumno":   {},
	"hora":     {},
	"teoria":   {},
	"practica": {},
}

const defaultMaxInputRunes = 500000

// Tokenizer turns raw text into lemma token sets.
type Tokenizer struct {
	lemmatizer *Lemmatizer
	maxRunes   int
}

// NewTokenizer builds a tokenizer over the given lemmatizer. maxRunes
// bounds the input length; zero means the default cap.
func NewTokenizer(lemmatizer *Lemmatizer, maxRunes int) *Tokenizer {
	if maxRunes <= 0 {
		maxRunes = defaultMaxInputRunes
	}
	return &Tokenizer{lemmatizer: lemmatizer, maxRunes: maxRunes}
}

// Tokenize extracts the lemma token set from text. Tokens of two runes or
// fewer, stopwords, and syllabus boilerplate are dropped. When the
// lemmatizer data is unavailable the result is empty.
func (t *Tokenizer) Tokenize(text string) TokenSet {
	tokens := make(TokenSet)
	if text == "" || !t.lemmatizer.Available() {
		return tokens
	}

	cleaned := nonLetterPattern.ReplaceAllString(strings.ToLower(text), "")
	if runes := []rune(cleaned); len(runes) > t.maxRunes {
		cleaned = string(runes[:t.maxRunes])
	}

	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 2 || t.lemmatizer.IsStopword(word) {
			continue
		}
		lemma := strings.ToLower(t.lemmatizer.Lemmatize(word))
		if _, skip := boilerplateLemmas[lemma]; skip {
			continue
		}
		if len([]rune(lemma)) <= 2 {
			continue
		}
		tokens[lemma] = struct{}{}
	}
	return tokens
}
