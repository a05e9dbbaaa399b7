package indexer

import (
	"errors"
	"strings"

	"parindex/pkg/parser"
)

type memDoc struct {
	id   string
	text string
	err  error
}

func (d memDoc) ID() string {
	return d.id
}

func (d memDoc) Text() (string, error) {
	return d.text, d.err
}

func corpus(pairs ...string) []Document {
	docs := []Document{}
	for i := 0; i+1 < len(pairs); i += 2 {
		docs = append(docs, memDoc{id: pairs[i], text: pairs[i+1]})
	}
	return docs
}

var errFailNormalize = errors.New("cannot normalize")

// lowerFields lowercases and splits on whitespace, nothing else. Text
// containing "#fail" cannot be normalized.
var lowerFields = parser.NormalizerFunc(func(text string) ([]string, error) {
	if strings.Contains(text, "#fail") {
		return nil, errFailNormalize
	}
	return strings.Fields(strings.ToLower(text)), nil
})
