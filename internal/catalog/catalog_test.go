package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/pcam/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ShapeAndWeights(t *testing.T) {
	c := Default()
	assert.Equal(t, 8, c.N())
	assert.Equal(t, 8, c.MaxImbalance())
	assert.Equal(t, []string{"hunger", "digestion", "stool", "bloating", "appetite", "tongue", "afterfood", "weight"}, c.IDs())

	for _, p := range c.Parameters {
		for _, cat := range domain.Categories {
			w, err := c.Weight(p.ID, cat)
			require.NoError(t, err)
			assert.Equal(t, 1, w, "%s/%s", p.ID, cat)
		}
	}
}

func TestClassic_ShapeAndWeights(t *testing.T) {
	c := Classic()
	assert.Equal(t, 6, c.N())
	assert.Equal(t, 10, c.MaxImbalance())
	assert.Equal(t, 0, c.MaxCategoryTotal(domain.CategorySama))

	w, err := c.Weight("hunger", domain.CategoryManda)
	require.NoError(t, err)
	assert.Equal(t, 2, w)

	w, err = c.Weight("thirst", domain.CategoryTikshna)
	require.NoError(t, err)
	assert.Equal(t, 1, w)
}

func TestWeight_RejectsUnknown(t *testing.T) {
	c := Default()

	_, err := c.Weight("pulse", domain.CategorySama)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = c.Weight("hunger", domain.Category("fiery"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestThresholds_Classify(t *testing.T) {
	th := Default().Thresholds
	tests := []struct {
		sum  int
		want domain.Severity
	}{
		{0, domain.SeverityBalanced},
		{1, domain.SeverityMild},
		{4, domain.SeverityMild},
		{5, domain.SeverityModerate},
		{6, domain.SeverityModerate},
		{7, domain.SeveritySevere},
		{8, domain.SeveritySevere},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.sum), "sum=%d", tt.sum)
	}
}

func TestNew_Validation(t *testing.T) {
	good := Default().Parameters

	_, err := New("dup", append([]Parameter{good[0]}, good[0]), Thresholds{MildMax: 1, ModerateMax: 1})
	assert.ErrorContains(t, err, "duplicate parameter")

	missing := Parameter{ID: "x", Descriptors: map[domain.Category]Descriptor{
		domain.CategoryVishama: {Weight: 1},
	}}
	_, err = New("missing", []Parameter{missing}, Thresholds{MildMax: 1, ModerateMax: 2})
	assert.ErrorContains(t, err, "must describe all 4 categories")

	_, err = New("bands", good, Thresholds{MildMax: 4, ModerateMax: 4})
	assert.ErrorContains(t, err, "must exceed mild threshold")

	_, err = New("ceiling", good, Thresholds{MildMax: 4, ModerateMax: 8})
	assert.ErrorContains(t, err, "maximum imbalance sum")

	_, err = New("empty", nil, Thresholds{MildMax: 1, ModerateMax: 2})
	assert.ErrorContains(t, err, "at least one parameter")
}

func TestParse_RoundTripsDefault(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, NameDefault, c.Name)
	assert.Equal(t, Default().IDs(), c.IDs())
	assert.Equal(t, Default().Thresholds, c.Thresholds)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: `thresholds: {mild_max: 1, moderate_max: 2}
parameters:
  - id: a
    label: A
    descriptors:
      vishama: {text: v, weight: 1}
      tikshna: {text: t, weight: 1}
      manda: {text: m, weight: 1}
      sama: {text: s, weight: 0}
`,
			want: "Name",
		},
		{
			name: "unknown category key",
			yaml: `name: x
thresholds: {mild_max: 1, moderate_max: 2}
parameters:
  - id: a
    label: A
    descriptors:
      vishama: {text: v, weight: 1}
      tikshna: {text: t, weight: 1}
      manda: {text: m, weight: 1}
      fiery: {text: s, weight: 0}
`,
			want: "oneof",
		},
		{
			name: "inverted thresholds",
			yaml: `name: x
thresholds: {mild_max: 3, moderate_max: 2}
parameters:
  - id: a
    label: A
    descriptors:
      vishama: {text: v, weight: 1}
      tikshna: {text: t, weight: 1}
      manda: {text: m, weight: 1}
      sama: {text: s, weight: 0}
`,
			want: "gtfield",
		},
		{
			name: "negative weight",
			yaml: `name: x
thresholds: {mild_max: 1, moderate_max: 2}
parameters:
  - id: a
    label: A
    descriptors:
      vishama: {text: v, weight: -1}
      tikshna: {text: t, weight: 1}
      manda: {text: m, weight: 1}
      sama: {text: s, weight: 0}
`,
			want: "weight",
		},
		{
			name: "not yaml",
			yaml: "::::",
			want: "decoding catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.want))
		})
	}
}

func TestResolve(t *testing.T) {
	c, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, NameDefault, c.Name)

	c, err = Resolve(NameClassic)
	require.NoError(t, err)
	assert.Equal(t, 6, c.N())

	data, err := Marshal(Classic())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "clinic.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err = Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, Classic().IDs(), c.IDs())

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading catalog")
}
