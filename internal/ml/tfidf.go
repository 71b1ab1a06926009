// Package ml implements TF-IDF vectorization and linear-model inference
// compatible with artifacts exported by the offline training job.
package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern selects word tokens of two or more characters, matching the
// vectorizer used at training time.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vectorizer maps text onto L2-normalized TF-IDF vectors over a fixed
// vocabulary. It is immutable after construction and safe for concurrent
// use.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	NgramMin   int            `json:"ngram_min"`
	NgramMax   int            `json:"ngram_max"`
}

// tokenize lowercases text and expands it into ngrams of the configured
// range. Bigrams and above are joined with single spaces.
func (v *Vectorizer) tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)

	ngramMin, ngramMax := v.NgramMin, v.NgramMax
	if ngramMin <= 0 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}

	var grams []string
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

// Transform converts text into a sparse L2-normalized TF-IDF vector keyed
// by vocabulary index. Unknown terms are ignored; fully out-of-vocabulary
// text yields an empty vector.
func (v *Vectorizer) Transform(text string) map[int]float64 {
	vec := make(map[int]float64)
	for _, gram := range v.tokenize(text) {
		if idx, ok := v.Vocabulary[gram]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for idx := range vec {
		vec[idx] *= v.IDF[idx]
		norm += vec[idx] * vec[idx]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// FitVectorizer builds a vectorizer from a document corpus using smoothed
// IDF weights. When maxFeatures > 0 the vocabulary keeps the terms with
// the highest corpus frequency; indices are assigned in term order.
func FitVectorizer(docs []string, ngramMin, ngramMax, maxFeatures int) *Vectorizer {
	v := &Vectorizer{NgramMin: ngramMin, NgramMax: ngramMax}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, gram := range v.tokenize(doc) {
			termFreq[gram]++
			seen[gram] = struct{}{}
		}
		for gram := range seen {
			docFreq[gram]++
		}
	}

	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return v
}

// Dot returns the inner product of two sparse vectors. For L2-normalized
// vectors this is their cosine similarity.
func Dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for idx, av := range a {
		sum += av * b[idx]
	}
	return sum
}

// Model is a binary logistic-regression classifier over TF-IDF features,
// loaded once from a trained artifact and read-only afterwards.
type Model struct {
	vectorizer   *Vectorizer
	coefficients []float64
	intercept    float64
	name         string
}

// modelArtifact is the on-disk JSON shape written by the training job.
type modelArtifact struct {
	Name         string         `json:"name"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NgramRange   []int          `json:"ngram_range"`
	Coefficients []float64      `json:"coef"`
	Intercept    float64        `json:"intercept"`
}

// LoadModel reads a trained model artifact from path. Any missing or
// malformed artifact is an error: the caller treats it as fatal for the
// process's prediction capability.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}
	return NewModel(artifact.Name, artifact.Vocabulary, artifact.IDF,
		artifact.NgramRange, artifact.Coefficients, artifact.Intercept)
}

// NewModel validates and assembles a model from its artifact components.
func NewModel(
	name string,
	vocabulary map[string]int,
	idf []float64,
	ngramRange []int,
	coefficients []float64,
	intercept float64,
) (*Model, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("model artifact has an empty vocabulary")
	}
	if len(idf) != len(vocabulary) || len(coefficients) != len(vocabulary) {
		return nil, fmt.Errorf("model artifact is inconsistent: %d terms, %d idf weights, %d coefficients",
			len(vocabulary), len(idf), len(coefficients))
	}
	for term, idx := range vocabulary {
		if idx < 0 || idx >= len(idf) {
			return nil, fmt.Errorf("model artifact has out-of-range index %d for term %q", idx, term)
		}
	}

	ngramMin, ngramMax := 1, 1
	if len(ngramRange) == 2 {
		ngramMin, ngramMax = ngramRange[0], ngramRange[1]
	}
	if name == "" {
		name = "tfidf-logreg"
	}

	return &Model{
		vectorizer: &Vectorizer{
			Vocabulary: vocabulary,
			IDF:        idf,
			NgramMin:   ngramMin,
			NgramMax:   ngramMax,
		},
		coefficients: coefficients,
		intercept:    intercept,
		name:         name,
	}, nil
}

// Name identifies the model in results and logs.
func (m *Model) Name() string {
	return m.name
}

// PhishingProbability scores text with the logistic model. An empty or
// fully out-of-vocabulary input falls through to sigmoid(intercept).
func (m *Model) PhishingProbability(text string) float64 {
	var z float64
	for idx, val := range m.vectorizer.Transform(text) {
		z += m.coefficients[idx] * val
	}
	return sigmoid(z + m.intercept)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
