package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmallestUnit(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{250, 25000},
		{249.99, 24999},
		{0.01, 1},
		{99.995, 10000},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, smallestUnit(tt.amount), "amount %v", tt.amount)
	}
}
