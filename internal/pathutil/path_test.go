package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"file", "segments/0/channels/height.dat", "height.dat"},
		{"dir", "index/12/", "12"},
		{"no slash", "header.properties", "header.properties"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Base(tt.input))
		})
	}
}

func TestChild(t *testing.T) {
	t.Parallel()

	name, isDir, ok := Child("index/12/", "index/")
	assert.True(t, ok)
	assert.True(t, isDir)
	assert.Equal(t, "12", name)

	name, isDir, ok = Child("index/header.properties", "index/")
	assert.True(t, ok)
	assert.False(t, isDir)
	assert.Equal(t, "header.properties", name)

	_, _, ok = Child("segments/0/", "index/")
	assert.False(t, ok)
}

func TestIsDigits(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDigits("0"))
	assert.True(t, IsDigits("0012"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("1a"))
	assert.False(t, IsDigits("-1"))
}

func TestSortNatural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "numeric components",
			input: []string{"index/2/", "index/10/", "index/1/"},
			want:  []string{"index/1/", "index/2/", "index/10/"},
		},
		{
			name:  "parent before children",
			input: []string{"index/1/segments/", "index/1/", "index/"},
			want:  []string{"index/", "index/1/", "index/1/segments/"},
		},
		{
			name: "nested segments",
			input: []string{
				"index/0/segments/10/",
				"index/0/segments/9/",
				"index/0/segments/1/",
			},
			want: []string{
				"index/0/segments/1/",
				"index/0/segments/9/",
				"index/0/segments/10/",
			},
		},
		{
			name:  "top-level files",
			input: []string{"shared-data/", "header.properties", "index/"},
			want:  []string{"header.properties", "index/", "shared-data/"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := append([]string(nil), tt.input...)
			SortNatural(got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareNatural_LeadingZeros(t *testing.T) {
	t.Parallel()

	assert.Negative(t, CompareNatural("a/007", "a/10"))
	assert.Positive(t, CompareNatural("a/7", "a/007"))
	assert.Zero(t, CompareNatural("a/7/b", "a/7/b"))
}
