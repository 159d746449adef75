package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailType(t *testing.T) {
	assert.True(t, TrailTypeGraveyard.Valid())
	assert.True(t, TrailTypeParish.Valid())
	assert.False(t, TrailType("museum").Valid())
	assert.False(t, TrailType("").Valid())

	assert.Equal(t, "g", TrailTypeGraveyard.Tag())
	assert.Equal(t, "p", TrailTypeParish.Tag())
}

func TestTrailTypeFromTag(t *testing.T) {
	tt, ok := TrailTypeFromTag("g")
	require.True(t, ok)
	assert.Equal(t, TrailTypeGraveyard, tt)

	tt, ok = TrailTypeFromTag("p")
	require.True(t, ok)
	assert.Equal(t, TrailTypeParish, tt)

	_, ok = TrailTypeFromTag("x")
	assert.False(t, ok)
}

func TestTrailID(t *testing.T) {
	assert.Equal(t, "KHS-graveyard", TrailID("KHS", TrailTypeGraveyard))
	assert.Equal(t, "KHS-parish", TrailID("KHS", TrailTypeParish))
}
