package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0 B/s"},
		{-5, "0 B/s"},
		{5.5, "5.50 B/s"},
		{42, "42.0 B/s"},
		{500, "500 B/s"},
		{1024, "1.00 KB/s"},
		{1536 * 1024, "1.50 MB/s"},
		{2 * 1024 * 1024 * 1024, "2.00 GB/s"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRate(tt.input))
		})
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "--"},
		{-time.Second, "--"},
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m 30s"},
		{3*time.Hour + 2*time.Minute + time.Second, "3h 02m 01s"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatETA(tt.input))
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCount(tt.input))
		})
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "", ProgressBar(0.5, 0))

	full := ProgressBar(1.0, 4)
	assert.Equal(t, "▪▪▪▪", full)

	empty := ProgressBar(0, 4)
	assert.Equal(t, "□□□□", empty)

	half := ProgressBar(0.5, 4)
	assert.Equal(t, "▪▪□□", half)

	// Out-of-range values are clamped.
	assert.Equal(t, full, ProgressBar(2.0, 4))
	assert.Equal(t, empty, ProgressBar(-1.0, 4))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, 0))

	flat := Sparkline(nil, 5)
	assert.Equal(t, 5, len([]rune(flat)))
	assert.Equal(t, strings.Repeat("▁", 5), flat)

	ramp := Sparkline([]float64{0, 50, 100}, 3)
	runes := []rune(ramp)
	assert.Equal(t, 3, len(runes))
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[2])
}
