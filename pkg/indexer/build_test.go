package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"parindex/pkg/metrics"
	"parindex/pkg/parser"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func randomCorpus(seed int64, docs int) []Document {
	r := rand.New(rand.NewSource(seed))
	vocabulary := []string{"cat", "dog", "sat", "ran", "mat", "hat", "bat", "rat", "fox", "owl"}
	out := []Document{}
	for i := range docs {
		words := make([]string, r.Intn(12))
		for j := range words {
			words[j] = vocabulary[r.Intn(len(vocabulary))]
		}
		out = append(out, memDoc{id: fmt.Sprintf("doc-%03d", i), text: strings.Join(words, " ")})
	}
	return out
}

func encode(t *testing.T, index *GlobalIndex) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := index.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestBuildIndexExample(t *testing.T) {
	docs := corpus("docA", "cat sat", "docB", "cat ran")

	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 2, Normalizer: lowerFields})
	require.NoError(t, err)

	require.Equal(t, 3, index.Len())
	list, _ := index.Lookup("cat")
	require.Equal(t, PostingList{{"docA", 1}, {"docB", 1}}, list)
	list, _ = index.Lookup("sat")
	require.Equal(t, PostingList{{"docA", 1}}, list)
	list, _ = index.Lookup("ran")
	require.Equal(t, PostingList{{"docB", 1}}, list)
}

func TestBuildIndexFrequencies(t *testing.T) {
	docs := randomCorpus(7, 60)

	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 4, Normalizer: lowerFields})
	require.NoError(t, err)

	expected := map[string]map[string]int{}
	for _, doc := range docs {
		text, _ := doc.Text()
		terms, _ := lowerFields.Normalize(text)
		for _, term := range terms {
			if expected[term] == nil {
				expected[term] = map[string]int{}
			}
			expected[term][doc.ID()]++
		}
	}

	require.Equal(t, len(expected), index.Len())
	for term, freqs := range expected {
		list, ok := index.Lookup(term)
		require.True(t, ok, term)
		require.Len(t, list, len(freqs), "one appearance per document containing %q", term)

		seen := map[string]bool{}
		for _, a := range list {
			require.False(t, seen[a.DocID], "duplicate %s in %q", a.DocID, term)
			seen[a.DocID] = true
			require.Equal(t, freqs[a.DocID], a.Frequency)
		}
	}
}

func TestBuildIndexDeterministic(t *testing.T) {
	docs := randomCorpus(42, 97)

	first, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 4, Normalizer: lowerFields})
	require.NoError(t, err)
	expected := encode(t, first)

	for range 5 {
		again, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 4, Normalizer: lowerFields})
		require.NoError(t, err)
		require.Equal(t, expected, encode(t, again))
		require.Equal(t, first.Digest(), again.Digest())
	}
}

func TestBuildIndexIndependentOfWorkers(t *testing.T) {
	docs := randomCorpus(3, 23)

	single, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 1, Normalizer: lowerFields})
	require.NoError(t, err)
	expected := encode(t, single)

	for _, workers := range []int{2, 3, 4, 7, 23, 40} {
		index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: workers, Normalizer: lowerFields})
		require.NoError(t, err)
		require.Equal(t, expected, encode(t, index), "workers=%d", workers)
	}
}

// Workers finishing in reverse order must not change the result.
func TestBuildIndexIgnoresCompletionOrder(t *testing.T) {
	docs := randomCorpus(11, 16)
	slow := parser.NormalizerFunc(func(text string) ([]string, error) {
		if strings.HasPrefix(text, "cat") {
			time.Sleep(5 * time.Millisecond)
		}
		return lowerFields(text)
	})

	expected, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 1, Normalizer: lowerFields})
	require.NoError(t, err)
	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 4, Normalizer: slow})
	require.NoError(t, err)
	require.Equal(t, expected.Digest(), index.Digest())
}

func TestBuildIndexEmpty(t *testing.T) {
	index, err := BuildIndex(context.Background(), nil, BuildOptions{Normalizer: lowerFields})
	require.NoError(t, err)
	require.Zero(t, index.Len())
	require.Zero(t, index.DocCount())
	require.Empty(t, encode(t, index))
}

func TestBuildIndexFewerDocsThanWorkers(t *testing.T) {
	docs := corpus("docA", "cat sat", "docB", "cat ran")

	expected, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 1, Normalizer: lowerFields})
	require.NoError(t, err)
	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 8, Normalizer: lowerFields})
	require.NoError(t, err)
	require.Equal(t, encode(t, expected), encode(t, index))
}

func TestBuildIndexFailsFast(t *testing.T) {
	readErr := errors.New("permission denied")
	docs := randomCorpus(5, 20)
	docs[13] = memDoc{id: "doc-013", err: readErr}
	m := metrics.New()

	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 4, Normalizer: lowerFields, Metrics: m})
	require.Nil(t, index)
	require.ErrorIs(t, err, readErr)

	var perr *PartitionError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 2, perr.Worker)
	require.Equal(t, "doc-013", perr.DocID)

	require.Equal(t, 1.0, testutil.ToFloat64(m.BuildFailures))
	require.Equal(t, 0.0, testutil.ToFloat64(m.DocumentsIndexed))
}

func TestBuildIndexNormalizeFailure(t *testing.T) {
	docs := corpus("a", "fine", "b", "#fail here")

	_, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 2, Normalizer: lowerFields})
	require.ErrorIs(t, err, errFailNormalize)
}

func TestBuildIndexOptions(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil, BuildOptions{Workers: -1, Normalizer: lowerFields})
	require.ErrorIs(t, err, ErrInvalidWorkers)

	_, err = BuildIndex(context.Background(), nil, BuildOptions{Workers: 2})
	require.ErrorIs(t, err, ErrNoNormalizer)
}

func TestBuildIndexMetrics(t *testing.T) {
	m := metrics.New()
	docs := corpus("docA", "cat sat", "docB", "cat ran", "docC", "owl")

	_, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 2, Normalizer: lowerFields, Metrics: m})
	require.NoError(t, err)

	require.Equal(t, 3.0, testutil.ToFloat64(m.DocumentsIndexed))
	require.Equal(t, 4.0, testutil.ToFloat64(m.IndexTerms))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PartitionDocuments.WithLabelValues("0")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PartitionDocuments.WithLabelValues("1")))
}

func TestBuildIndexWithTextNormalizer(t *testing.T) {
	docs := corpus(
		"1.txt", "The cats sat on the mat.<br /><br />Cats are great!",
		"2.txt", "A dog ran; the dogs were running.",
	)

	index, err := BuildIndex(context.Background(), docs, BuildOptions{Workers: 2, Normalizer: parser.NewTextNormalizer()})
	require.NoError(t, err)

	list, ok := index.Lookup("cat")
	require.True(t, ok)
	require.Equal(t, PostingList{{"1.txt", 2}}, list)

	list, ok = index.Lookup("dog")
	require.True(t, ok)
	require.Equal(t, PostingList{{"2.txt", 2}}, list)

	_, ok = index.Lookup("the")
	require.False(t, ok)
	_, ok = index.Lookup("Cats")
	require.False(t, ok)
}

func TestBuildIndexDir(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "b.txt"), []byte("cat ran"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("cat sat"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "c.csv"), []byte("cat,hat"), 0644))

	index, err := BuildIndexDir(context.Background(), srcDir, ".txt", BuildOptions{Workers: 2, Normalizer: lowerFields})
	require.NoError(t, err)
	list, _ := index.Lookup("cat")
	require.Equal(t, PostingList{{"a.txt", 1}, {"b.txt", 1}}, list)
	require.Equal(t, 2, index.DocCount())

	_, err = BuildIndexDir(context.Background(), filepath.Join(srcDir, "missing"), ".txt", BuildOptions{Normalizer: lowerFields})
	require.Error(t, err)
}
