package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake_BasicNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Hello World", "hello-world"},
		{"collapses whitespace runs", "a   b\t\tc", "a-b-c"},
		{"collapses repeated hyphens", "a -- b", "a-b"},
		{"trims leading and trailing hyphens", " - hello - ", "hello"},
		{"drops punctuation", "What's new?!", "whats-new"},
		{"keeps digits", "Go 1.24 released", "go-124-released"},
		{"strips diacritics", "Déjà Vu", "deja-vu"},
		{"already a slug", "already-a-slug", "already-a-slug"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Make(tc.input))
		})
	}
}

func TestMake_EmptyInputReturnsPlaceholder(t *testing.T) {
	require.Equal(t, Placeholder, Make(""))
	require.Equal(t, Placeholder, Make("   "))
	require.Equal(t, Placeholder, Make("???"))
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"Déjà Vu",
		"a -- b",
		"",
		"already-a-slug",
		"What's new?!",
		"日本語タイトル",
	}
	for _, in := range inputs {
		once := Make(in)
		require.Equal(t, once, Make(once), "slug of %q must be stable", in)
		require.NotEmpty(t, once)
	}
}
