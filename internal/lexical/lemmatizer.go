package lexical

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"silabo/internal/config"
)

//go:embed stopwords_es.txt
var embeddedStopwords []byte

//go:embed lemmas_es.txt
var embeddedLemmas []byte

// Lemmatizer maps Spanish word forms to their lemma. The embedded
// dictionary handles irregular forms; regular plurals fall through to
// suffix rules. An external dictionary file, when configured, overlays
// the embedded one. Data loads lazily on first use.
type Lemmatizer struct {
	cfg config.Lemmatizer

	once      sync.Once
	loadErr   error
	stopwords map[string]struct{}
	lemmas    map[string]string
}

// NewLemmatizer builds a lemmatizer from configuration. No data is read
// until the first Lemmatize or Available call.
func NewLemmatizer(cfg config.Lemmatizer) *Lemmatizer {
	return &Lemmatizer{cfg: cfg}
}

// Available reports whether the language data loaded and lemmatization is
// enabled. A disabled or failed lemmatizer yields empty token sets.
func (l *Lemmatizer) Available() bool {
	if !l.cfg.Enabled {
		return false
	}
	l.load()
	return l.loadErr == nil
}

// LoadError returns the data-loading failure, if any.
func (l *Lemmatizer) LoadError() error {
	l.load()
	return l.loadErr
}

// Lemmatize returns the lemma for a lowercase word form.
func (l *Lemmatizer) Lemmatize(form string) string {
	l.load()
	if l.loadErr != nil {
		return form
	}
	if lemma, ok := l.lemmas[form]; ok {
		return lemma
	}
	return stripPluralSuffix(form)
}

// IsStopword reports whether the lowercase form is a Spanish stopword.
func (l *Lemmatizer) IsStopword(form string) bool {
	l.load()
	_, ok := l.stopwords[form]
	return ok
}

func (l *Lemmatizer) load() {
	l.once.Do(func() {
		l.stopwords = parseWordList(embeddedStopwords)
		l.lemmas, l.loadErr = parseLemmaPairs(embeddedLemmas)
		if l.loadErr != nil || l.cfg.DictionaryPath == "" {
			return
		}
		data, err := os.ReadFile(l.cfg.DictionaryPath)
		if err != nil {
			l.loadErr = fmt.Errorf("read lemma dictionary %s: %w", l.cfg.DictionaryPath, err)
			return
		}
		extra, err := parseLemmaPairs(data)
		if err != nil {
			l.loadErr = fmt.Errorf("parse lemma dictionary %s: %w", l.cfg.DictionaryPath, err)
			return
		}
		for form, lemma := range extra {
			l.lemmas[form] = lemma
		}
	})
}

func parseWordList(data []byte) map[string]struct{} {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[line] = struct{}{}
	}
	return words
}

func parseLemmaPairs(data []byte) (map[string]string, error) {
	pairs := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"form lemma\", got %q", lineNo, line)
		}
		pairs[fields[0]] = fields[1]
	}
	return pairs, nil
}

// stripPluralSuffix applies regular Spanish plural rules: -ciones and
// -siones recover their accented singular, vowel+s drops the s,
// consonant+es drops the es, -ces becomes -z.
func stripPluralSuffix(form string) string {
	runes := []rune(form)
	n := len(runes)
	if n > 6 && strings.HasSuffix(form, "ciones") {
		return string(runes[:n-6]) + "ción"
	}
	if n > 6 && strings.HasSuffix(form, "siones") {
		return string(runes[:n-6]) + "sión"
	}
	if n > 4 && strings.HasSuffix(form, "ces") {
		return string(runes[:n-3]) + "z"
	}
	if n > 4 && strings.HasSuffix(form, "es") && !isVowel(runes[n-3]) {
		return string(runes[:n-2])
	}
	if n > 3 && runes[n-1] == 's' && isVowel(runes[n-2]) {
		return string(runes[:n-1])
	}
	return form
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'á', 'é', 'í', 'ó', 'ú', 'ü':
		return true
	}
	return false
}
