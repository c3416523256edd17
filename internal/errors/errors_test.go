package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTypeWalksChain(t *testing.T) {
	inner := NotFound("tier", "Platinum")
	outer := Wrapf(TypeInput, inner, "part %s", "Hat")
	foreign := fmt.Errorf("calculate: %w", outer)

	assert.True(t, IsType(foreign, TypeInput))
	assert.True(t, IsType(foreign, TypeNotFound))
	assert.False(t, IsType(foreign, TypeConfig))
	assert.False(t, IsType(nil, TypeInput))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInput))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] tier not found: Platinum", NotFound("tier", "Platinum").Error())
	assert.Equal(t,
		"[INPUT_ERROR] part Hat: [NOT_FOUND] tier not found: Platinum",
		Wrapf(TypeInput, NotFound("tier", "Platinum"), "part %s", "Hat").Error())
}

func TestDetailsMergesContext(t *testing.T) {
	inner := NotFound("tier", "Gld").WithContext("did_you_mean", []string{"Gold"}).WithContext("part", "inner")
	outer := Wrapf(TypeInput, inner, "part Coat").WithContext("part", "Coat")

	assert.Equal(t, map[string]interface{}{
		"part":         "Coat",
		"did_you_mean": []string{"Gold"},
	}, Details(outer))
	assert.Nil(t, Details(fmt.Errorf("plain")))
}
