package IO

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sugarme/tokenizer/normalizers"
)

// Corpus normalization: NFKC then lowercase.
var corpusNormalizer = normalizers.NewSequence(
	normalizers.NewNFKC(),
	normalizers.NewLowercase(),
)

// Tokenize normalizes line and returns its alphabetic tokens. Non-letter
// characters are dropped, whitespace separates tokens.
func Tokenize(line string) ([]string, error) {
	n, err := corpusNormalizer.Normalize(normalizers.NewNormalizedFrom(line))
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, c := range n.GetNormalized() {
		switch {
		case unicode.IsLetter(c):
			b.WriteRune(c)
		case unicode.IsSpace(c):
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String()), nil
}

// ReadCorpus reads one document per line. Lines without any token are skipped.
func ReadCorpus(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<26)
	var docs [][]string
	for sc.Scan() {
		toks, err := Tokenize(sc.Text())
		if err != nil {
			return nil, err
		}
		if len(toks) > 0 {
			docs = append(docs, toks)
		}
	}
	return docs, sc.Err()
}

func LoadCorpus(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCorpus(bufio.NewReaderSize(f, 1<<20))
}
