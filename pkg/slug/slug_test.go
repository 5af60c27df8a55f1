package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Apollo", "apollo"},
		{"spaces to hyphens", "My New Project", "my-new-project"},
		{"whitespace runs collapse", "a   b\t c", "a-b-c"},
		{"punctuation dropped", "Hello, World!", "hello-world"},
		{"underscores and hyphens", "snake_case-name", "snake-case-name"},
		{"digits kept", "Q3 2026 Roadmap", "q3-2026-roadmap"},
		{"leading and trailing noise", "  --Project--  ", "project"},
		{"unicode letters kept", "Café Crème", "café-crème"},
		{"empty falls back", "", Fallback},
		{"only symbols falls back", "!!! ###", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "apollo-1", WithSuffix("apollo", 1))
	assert.Equal(t, "apollo-12", WithSuffix("apollo", 12))
}

// Two distinct names normalizing to the same base produce identical slugs;
// disambiguation is the caller's job via WithSuffix.
func TestMake_CollidingNames(t *testing.T) {
	assert.Equal(t, Make("My Project"), Make("my   PROJECT!"))
}
