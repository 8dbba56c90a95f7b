package script

import (
	"iter"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Splitter breaks prose into sentences. Nil splitter treats every paragraph
// as a single sentence.
type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter returns splitter for language. Only English training data is
// available, nil is returned for everything else.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	base, confidence := lang.Base()
	if confidence == language.No || base.String() != "en" {
		log.Warn("No sentence tokenizer data for language, paragraphs will not be split", zap.Stringer("tag", lang))
		return nil
	}
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	return &Splitter{tok}
}

// Sentences returns an iterator over trimmed non empty sentences of all
// paragraphs of text.
func (s *Splitter) Sentences(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for paragraph := range strings.SplitSeq(text, "\n\n") {
			paragraph = strings.Join(strings.Fields(paragraph), " ")
			if len(paragraph) == 0 {
				continue
			}
			if s == nil {
				if !yield(paragraph) {
					return
				}
				continue
			}
			for _, sentence := range s.Tokenize(paragraph) {
				if t := strings.TrimFunc(sentence.Text, unicode.IsSpace); len(t) > 0 {
					if !yield(t) {
						return
					}
				}
			}
		}
	}
}
