package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/t1hachane/NLP-Fall-2024/IO"
	"github.com/t1hachane/NLP-Fall-2024/skipgram"
	"github.com/t1hachane/NLP-Fall-2024/vocab"
)

// QueryCLI reads one word per line from in and prints its nearest neighbours
// to out until EOF or "exit".
func QueryCLI(in io.Reader, out io.Writer, v *vocab.Vocabulary, model *skipgram.Model, metric skipgram.Metric, n int) error {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%d tokens loaded, metric %s. Type 'exit' to quit.\n", v.Len(), metric)
	for {
		fmt.Fprint(out, "word: ")
		line, err := reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if input == "exit" {
			return nil
		}
		if input != "" {
			if qerr := printNeighbours(out, v, model, metric, n, input); qerr != nil {
				return qerr
			}
		}
		if err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func printNeighbours(out io.Writer, v *vocab.Vocabulary, model *skipgram.Model, metric skipgram.Metric, n int, input string) error {
	toks, err := IO.Tokenize(input)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		fmt.Fprintln(out, "no letters in input")
		return nil
	}
	hits, err := model.Nearest(v, toks[0], n, metric)
	var unknown *vocab.UnknownTokenError
	if errors.As(err, &unknown) {
		fmt.Fprintf(out, "%q is not in the vocabulary\n", unknown.Token)
		return nil
	}
	if err != nil {
		return err
	}
	for i, h := range hits {
		fmt.Fprintf(out, "%2d. %-20s %.4f\n", i+1, h.Token, h.Score)
	}
	return nil
}
