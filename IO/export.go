package IO

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

func ExportVocabJSON(path string, v *vocab.Vocabulary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	data := map[string]any{
		"TokenToID": v.TokenToID,
		"IDToToken": v.IDToToken,
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ImportVocabJSON loads a vocab.json written by ExportVocabJSON.
func ImportVocabJSON(path string) (*vocab.Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var data struct {
		TokenToID map[string]int `json:"TokenToID"`
		IDToToken []string       `json:"IDToToken"`
	}
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return nil, err
	}
	if len(data.IDToToken) == 0 {
		return nil, &vocab.EmptyVocabularyError{}
	}
	for i, tok := range data.IDToToken {
		if data.TokenToID[tok] != i {
			return nil, fmt.Errorf("%s: token %q maps to %d, listed at %d", path, tok, data.TokenToID[tok], i)
		}
	}
	return &vocab.Vocabulary{TokenToID: data.TokenToID, IDToToken: data.IDToToken}, nil
}

// WriteVectors writes one "token v1 v2 ... vD" line per vocabulary row.
func WriteVectors(w io.Writer, v *vocab.Vocabulary, table *mat.Dense) error {
	bw := bufio.NewWriter(w)
	for i, tok := range v.IDToToken {
		bw.WriteString(tok)
		for _, x := range table.RawRowView(i) {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func ExportVectors(path string, v *vocab.Vocabulary, table *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteVectors(f, v, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadVectors parses the text format written by WriteVectors (GloVe style).
// Every row must have the same dimension.
func ReadVectors(r io.Reader) (*vocab.Vocabulary, *mat.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<26)
	v := &vocab.Vocabulary{TokenToID: map[string]int{}}
	var data []float64
	dim := -1
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		if dim < 0 {
			dim = len(fields) - 1
		} else if len(fields)-1 != dim {
			return nil, nil, fmt.Errorf("line %d: %d values, want %d", line, len(fields)-1, dim)
		}
		for _, val := range fields[1:] {
			x, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, x)
		}
		v.TokenToID[fields[0]] = len(v.IDToToken)
		v.IDToToken = append(v.IDToToken, fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if dim < 0 {
		return nil, nil, &vocab.EmptyVocabularyError{}
	}
	return v, mat.NewDense(len(v.IDToToken), dim, data), nil
}

func LoadVectors(path string) (*vocab.Vocabulary, *mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadVectors(f)
}
