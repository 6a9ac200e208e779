// Package lexical normalizes syllabus text into lemma token sets for
// Jaccard comparison. Tokenization strips everything but Spanish letters,
// lowercases, caps the input length, lemmatizes each word through an
// embedded dictionary plus suffix rules, and drops stopwords along with a
// small set of syllabus boilerplate words. When the lemmatizer cannot load
// its data the tokenizer degrades to empty sets, which downstream matching
// treats as "no lexical evidence".
package lexical
