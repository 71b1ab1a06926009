package ml

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitVectorizer(t *testing.T) {
	docs := []string{
		"free money now",
		"meeting tomorrow morning",
		"free lunch tomorrow",
	}
	v := FitVectorizer(docs, 1, 1, 0)

	idx, ok := v.Vocabulary["free"]
	require.True(t, ok)

	// "free" appears in two of three documents.
	expected := math.Log(4.0/3.0) + 1
	assert.InDelta(t, expected, v.IDF[idx], 1e-9)

	// "meeting" appears in one document.
	idx, ok = v.Vocabulary["meeting"]
	require.True(t, ok)
	assert.InDelta(t, math.Log(2.0)+1, v.IDF[idx], 1e-9)
}

func TestFitVectorizerNgrams(t *testing.T) {
	v := FitVectorizer([]string{"free money"}, 1, 2, 0)

	assert.Contains(t, v.Vocabulary, "free")
	assert.Contains(t, v.Vocabulary, "money")
	assert.Contains(t, v.Vocabulary, "free money")
}

func TestFitVectorizerMaxFeatures(t *testing.T) {
	docs := []string{
		"alpha alpha alpha beta",
		"alpha gamma",
	}
	v := FitVectorizer(docs, 1, 1, 1)

	require.Len(t, v.Vocabulary, 1)
	assert.Contains(t, v.Vocabulary, "alpha")
}

func TestTransform(t *testing.T) {
	v := FitVectorizer([]string{"phishing email scam", "normal email"}, 1, 1, 0)

	t.Run("result is L2 normalized", func(t *testing.T) {
		vec := v.Transform("phishing scam scam")
		require.NotEmpty(t, vec)
		var norm float64
		for _, val := range vec {
			norm += val * val
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	})

	t.Run("out of vocabulary terms are dropped", func(t *testing.T) {
		assert.Empty(t, v.Transform("completely unrelated words"))
	})

	t.Run("single character tokens are not matched", func(t *testing.T) {
		assert.Empty(t, v.Transform("a b c"))
	})
}

func TestDot(t *testing.T) {
	v := FitVectorizer([]string{"phishing email scam", "normal email"}, 1, 1, 0)

	a := v.Transform("phishing email scam")
	assert.InDelta(t, 1.0, Dot(a, a), 1e-9)

	b := v.Transform("normal email")
	sim := Dot(a, b)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)

	assert.Zero(t, Dot(a, map[int]float64{}))
}

func TestNewModelValidation(t *testing.T) {
	_, err := NewModel("m", nil, nil, nil, nil, 0)
	require.Error(t, err)

	_, err = NewModel("m", map[string]int{"win": 0}, []float64{1, 2}, nil, []float64{1}, 0)
	require.Error(t, err)

	_, err = NewModel("m", map[string]int{"win": 5}, []float64{1}, nil, []float64{1}, 0)
	require.Error(t, err)
}

func TestPhishingProbability(t *testing.T) {
	model, err := NewModel("test",
		map[string]int{"winner": 0},
		[]float64{1},
		[]int{1, 1},
		[]float64{2},
		-1,
	)
	require.NoError(t, err)

	// "winner" vectorizes to a unit vector on its only dimension, so
	// z = 2*1 - 1 = 1.
	assert.InDelta(t, 1.0/(1.0+math.Exp(-1)), model.PhishingProbability("winner"), 1e-9)

	// Out-of-vocabulary text falls through to the intercept.
	assert.InDelta(t, 1.0/(1.0+math.Exp(1)), model.PhishingProbability("hello there"), 1e-9)
	assert.InDelta(t, 1.0/(1.0+math.Exp(1)), model.PhishingProbability(""), 1e-9)
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid artifact", func(t *testing.T) {
		path := filepath.Join(dir, "model.json")
		artifact := `{
			"name": "phish-v1",
			"vocabulary": {"free": 0, "money": 1},
			"idf": [1.2, 1.5],
			"ngram_range": [1, 2],
			"coef": [0.8, 1.1],
			"intercept": -0.3
		}`
		require.NoError(t, os.WriteFile(path, []byte(artifact), 0o644))

		model, err := LoadModel(path)
		require.NoError(t, err)
		assert.Equal(t, "phish-v1", model.Name())

		p := model.PhishingProbability("free money")
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadModel(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := LoadModel(path)
		require.Error(t, err)
	})
}
