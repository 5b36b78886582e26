package IO

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/t1hachane/NLP-Fall-2024/skipgram"
	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

// modelData is the gob payload: both tables plus the vocabulary that indexes them.
type modelData struct {
	Rows, Cols  int
	TargetData  []float64
	ContextData []float64
	Vocab       []string
}

// SaveModel persists the embedding tables and vocabulary with gob.
func SaveModel(path string, v *vocab.Vocabulary, m *skipgram.Model) error {
	rows, cols := m.Dims()
	if rows != v.Len() {
		return fmt.Errorf("model has %d rows, vocabulary %d tokens", rows, v.Len())
	}
	data := modelData{
		Rows:        rows,
		Cols:        cols,
		TargetData:  append([]float64(nil), m.Target.RawMatrix().Data...),
		ContextData: append([]float64(nil), m.Context.RawMatrix().Data...),
		Vocab:       v.IDToToken,
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// written next to path, then renamed over it
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func LoadModel(path string) (*vocab.Vocabulary, *skipgram.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var data modelData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, nil, err
	}
	if data.Rows == 0 {
		return nil, nil, &vocab.EmptyVocabularyError{}
	}
	if len(data.Vocab) != data.Rows || len(data.TargetData) != data.Rows*data.Cols || len(data.ContextData) != data.Rows*data.Cols {
		return nil, nil, fmt.Errorf("%s: inconsistent model shapes", path)
	}
	v := &vocab.Vocabulary{TokenToID: make(map[string]int, len(data.Vocab)), IDToToken: data.Vocab}
	for i, tok := range data.Vocab {
		v.TokenToID[tok] = i
	}
	m, err := skipgram.FromTables(
		mat.NewDense(data.Rows, data.Cols, data.TargetData),
		mat.NewDense(data.Rows, data.Cols, data.ContextData),
	)
	if err != nil {
		return nil, nil, err
	}
	return v, m, nil
}
