package xr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSemanticLabel(t *testing.T) {
	for _, l := range Labels() {
		assert.Equal(t, l, ParseSemanticLabel(string(l)))
	}
	assert.Equal(t, LabelNone, ParseSemanticLabel("spaceship"))
	assert.Equal(t, LabelNone, ParseSemanticLabel(""))
}

func TestIdentityPose(t *testing.T) {
	p := IdentityPose()
	assert.Equal(t, float32(1), p.Orientation.W)
	assert.Equal(t, float32(0), p.Position.Length())
}
