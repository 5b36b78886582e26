package pairs

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/t1hachane/NLP-Fall-2024/params"
)

func contextsOf(ps []Pair, target int) []int {
	var ctx []int
	for _, p := range ps {
		if p.Target == target {
			ctx = append(ctx, p.Context)
		}
	}
	sort.Ints(ctx)
	return ctx
}

func TestGenerateWindowAroundTarget(t *testing.T) {
	// a b c d e, token id = position
	doc := []int{0, 1, 2, 3, 4}
	ps, err := Generate([][]int{doc}, 2, Symmetric)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := contextsOf(ps, 2), []int{0, 1, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("contexts of c = %v, want %v", got, want)
	}
	for _, p := range ps {
		if p.Target == p.Context {
			t.Errorf("pair %+v pairs a position with itself", p)
		}
	}
}

func TestGenerateHalfOpenSpan(t *testing.T) {
	ps, err := Generate([][]int{{0, 1, 2, 3, 4}}, 2, HalfOpen)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := contextsOf(ps, 2), []int{0, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("contexts of c = %v, want %v", got, want)
	}
	if got := contextsOf(ps, 4); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("contexts of e = %v", got)
	}
}

func TestGenerateOrderAndBoundaries(t *testing.T) {
	docs := [][]int{{10, 11, 12}, {}, {20, 21}}
	ps, err := Generate(docs, 1, Symmetric)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{
		{Target: 10, Context: 11},
		{Target: 11, Context: 10},
		{Target: 11, Context: 12},
		{Target: 12, Context: 11},
		{Target: 20, Context: 21},
		{Target: 21, Context: 20},
	}
	if !reflect.DeepEqual(ps, want) {
		t.Fatalf("pairs = %+v, want %+v", ps, want)
	}
	for _, p := range ps {
		if p.Target/10 != p.Context/10 {
			t.Errorf("pair %+v crosses documents", p)
		}
	}
}

func TestGenerateWiderWindow(t *testing.T) {
	ps, _ := Generate([][]int{{0, 1, 2, 3, 4, 5, 6}}, 3, Symmetric)
	if got, want := contextsOf(ps, 3), []int{0, 1, 2, 4, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Errorf("contexts of 3 = %v, want %v", got, want)
	}
	if got, want := contextsOf(ps, 0), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("contexts of 0 = %v, want %v", got, want)
	}
}

func TestGenerateInvalidWindow(t *testing.T) {
	_, err := Generate([][]int{{1, 2}}, 0, Symmetric)
	var ice *params.InvalidConfigurationError
	if !errors.As(err, &ice) || ice.Field != "window" {
		t.Fatalf("err = %v", err)
	}
	_, err = GenerateParallel(context.Background(), nil, -1, Symmetric, 4)
	if !errors.As(err, &ice) {
		t.Fatalf("parallel err = %v", err)
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	var docs [][]int
	for d := 0; d < 50; d++ {
		doc := make([]int, d%9)
		for i := range doc {
			doc[i] = d*100 + i
		}
		docs = append(docs, doc)
	}
	seq, _ := Generate(docs, 2, HalfOpen)
	par, err := GenerateParallel(context.Background(), docs, 2, HalfOpen, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Fatal("parallel generation changed pair order")
	}
}

func TestGenerateParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateParallel(ctx, [][]int{{1, 2, 3}, {4, 5}}, 1, Symmetric, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAttachNegativesOneDrawPerPair(t *testing.T) {
	ps := []Pair{{Target: 1, Context: 2}, {Target: 2, Context: 1}, {Target: 3, Context: 1}}
	calls := 0
	AttachNegatives(ps, func() []int {
		calls++
		return []int{calls, calls}
	})
	if calls != len(ps) {
		t.Fatalf("draws = %d, want %d", calls, len(ps))
	}
	for i, p := range ps {
		if p.Negatives[0] != i+1 {
			t.Errorf("pair %d got draw %v", i, p.Negatives)
		}
	}
}
