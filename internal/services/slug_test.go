package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go: Tips & Tricks!  ", "go-tips-tricks"},
		{"---Already--hyphenated---", "already-hyphenated"},
		{"Version 2.0 Released", "version-2-0-released"},
		{"Café Déjà Vu", "caf-d-j-vu"},
		{"Ñandú rocks", "and-rocks"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
