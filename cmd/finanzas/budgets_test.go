package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		filled   int
	}{
		{name: "empty", progress: 0, filled: 0},
		{name: "half", progress: 0.5, filled: 10},
		{name: "full", progress: 1, filled: 20},
		{name: "overspend clamps", progress: 1.6, filled: 20},
		{name: "negative clamps", progress: -0.2, filled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderProgressBar(tt.progress, 20)
			assert.Equal(t, tt.filled, strings.Count(bar, "█"))
			assert.Equal(t, 20-tt.filled, strings.Count(bar, "░"))
		})
	}
}
