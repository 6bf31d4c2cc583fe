package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleBoundsAndDefaults(t *testing.T) {
	min, max := ScaleContinuous0to100.Bounds()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 100.0, max)
	assert.Equal(t, 0.0, ScaleContinuous0to100.Default())

	min, max = ScaleCategory7.Bounds()
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 7.0, max)
	assert.Equal(t, 1.0, ScaleCategory7.Default())
	assert.True(t, ScaleCategory7.Categorical())
	assert.False(t, ScaleContinuous1to9.Categorical())
}

func TestScaleClamp(t *testing.T) {
	assert.Equal(t, 100.0, ScaleContinuous0to100.Clamp(250))
	assert.Equal(t, 0.0, ScaleContinuous0to100.Clamp(-1))
	assert.Equal(t, 42.0, ScaleContinuous0to100.Clamp(42))
	assert.Equal(t, 1.0, ScaleCategory5.Clamp(0))
	assert.Equal(t, 5.0, ScaleCategory5.Clamp(9))
}

func TestMethodClassification(t *testing.T) {
	assert.True(t, MethodTDS.Timed())
	assert.True(t, MethodTimeIntensity.Timed())
	assert.False(t, MethodQDA.Timed())

	assert.True(t, MethodTriangle.WholeSet())
	assert.True(t, MethodSorting.WholeSet())
	assert.False(t, MethodHedonic.WholeSet())

	assert.True(t, MethodFlashProfile.Valid())
	assert.False(t, Method("guesswork").Valid())
}

func TestLoadSeedTests(t *testing.T) {
	yaml := `
tests:
  - name: "Juice profile"
    method: qda
    randomize: true
    samples:
      - code: "417"
        name: "Supplier A"
      - code: "582"
        name: "Supplier B"
    attributes:
      - name: "Sweetness"
        scale: continuous_0_100
      - name: "Overall liking"
        scale: category_9
        anchor_left: "dislike extremely"
        anchor_right: "like extremely"
  - name: "Odd one out"
    method: triangle
    correct_sample: "645"
    samples:
      - code: "331"
      - code: "902"
      - code: "645"
`
	path := filepath.Join(t.TempDir(), "tests.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	tests, err := LoadSeedTests(path)
	require.NoError(t, err)
	require.Len(t, tests, 2)

	assert.Equal(t, MethodQDA, tests[0].Method)
	assert.Equal(t, StatusActive, tests[0].Status)
	assert.True(t, tests[0].Randomize)
	require.Len(t, tests[0].Samples, 2)
	assert.Equal(t, 1, tests[0].Samples[1].Position)
	require.Len(t, tests[0].Attributes, 2)
	assert.Equal(t, ScaleCategory9, tests[0].Attributes[1].Scale)
	assert.Equal(t, "dislike extremely", tests[0].Attributes[1].AnchorLeft)

	assert.Equal(t, "645", tests[1].CorrectSample)
}

func TestLoadSeedTestsDefaultsAndErrors(t *testing.T) {
	dir := t.TempDir()

	noScale := filepath.Join(dir, "noscale.yaml")
	require.NoError(t, os.WriteFile(noScale, []byte(`
tests:
  - name: "t"
    method: qda
    samples: [{code: "1"}]
    attributes: [{name: "Sweetness"}]
`), 0o644))
	tests, err := LoadSeedTests(noScale)
	require.NoError(t, err)
	assert.Equal(t, ScaleContinuous0to100, tests[0].Attributes[0].Scale)

	badMethod := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badMethod, []byte(`
tests:
  - name: "t"
    method: vibes
    samples: [{code: "1"}]
`), 0o644))
	_, err = LoadSeedTests(badMethod)
	assert.Error(t, err)

	_, err = LoadSeedTests(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
