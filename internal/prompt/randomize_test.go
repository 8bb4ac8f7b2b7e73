package prompt

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomizeTemplate(t *testing.T) {
	r := New(rand.New(rand.NewSource(1)))
	p := r.Randomize(context.Background())

	assert.True(t, strings.HasPrefix(p, "A "))
	assert.Contains(t, p, " kitten wearing ")
	assert.Contains(t, p, " bass guitar in a ")
	assert.Contains(t, p, "High detail, pleasing composition.")
	assert.True(t, strings.HasSuffix(p, "\nNegative prompt: "+Negative))
}

func TestChoiceString(t *testing.T) {
	c := Choice{
		Style:   "watercolor",
		Kitten:  "calico",
		Boots:   "rain boots",
		Bass:    "acoustic bass",
		Setting: "garage jam",
		Light:   "golden hour",
		Camera:  "Dutch tilt",
		Action:  "tuning",
	}
	assert.Equal(t, "A watercolor image of a calico kitten wearing rain boots, playing a acoustic bass bass guitar in a garage jam. "+
		"Lighting: golden hour. Camera: Dutch tilt. Action: tuning. High detail, pleasing composition.\nNegative prompt: "+Negative,
		c.String())
}

func TestDrawIsUniform(t *testing.T) {
	const trials = 90000
	r := New(rand.New(rand.NewSource(42)))

	slots := []struct {
		name  string
		list  []string
		value func(Choice) string
	}{
		{"style", Styles, func(c Choice) string { return c.Style }},
		{"kitten", Kittens, func(c Choice) string { return c.Kitten }},
		{"boots", Boots, func(c Choice) string { return c.Boots }},
		{"bass", Basses, func(c Choice) string { return c.Bass }},
		{"setting", Settings, func(c Choice) string { return c.Setting }},
		{"light", Lights, func(c Choice) string { return c.Light }},
		{"camera", Cameras, func(c Choice) string { return c.Camera }},
		{"action", Actions, func(c Choice) string { return c.Action }},
	}

	counts := make([]map[string]int, len(slots))
	for i := range counts {
		counts[i] = map[string]int{}
	}
	for n := 0; n < trials; n++ {
		c := r.Draw()
		for i, s := range slots {
			counts[i][s.value(c)]++
		}
	}

	for i, s := range slots {
		t.Run(s.name, func(t *testing.T) {
			require.Len(t, counts[i], len(s.list))
			expected := float64(trials) / float64(len(s.list))
			for _, v := range s.list {
				assert.InEpsilon(t, expected, float64(counts[i][v]), 0.05, v)
			}
		})
	}
}

func TestDrawsAreIndependent(t *testing.T) {
	r := New(rand.New(rand.NewSource(7)))
	seen := map[string]struct{}{}
	for n := 0; n < 50; n++ {
		seen[r.Draw().String()] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
