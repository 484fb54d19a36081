package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"zero value", Page{}, Page{Skip: 0, Limit: DefaultPageLimit}},
		{"negative skip", Page{Skip: -5, Limit: 3}, Page{Skip: 0, Limit: 3}},
		{"limit capped", Page{Skip: 20, Limit: 1000}, Page{Skip: 20, Limit: MaxPageLimit}},
		{"unchanged", Page{Skip: 10, Limit: 25}, Page{Skip: 10, Limit: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
