package typeinfer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuess_NullIsh(t *testing.T) {
	assert.Nil(t, Guess(""))
	assert.Nil(t, Guess("   "))
	assert.Nil(t, Guess("null"))
	assert.Nil(t, Guess("NULL"))
	assert.Nil(t, Guess("undefined"))
}

func TestGuess_Numbers(t *testing.T) {
	assert.Equal(t, json.Number("42"), Guess("42"))
	assert.Equal(t, json.Number("-7"), Guess("-7"))
	assert.Equal(t, json.Number("3.14"), Guess("3.14"))
	assert.Equal(t, json.Number("-0.5"), Guess("-0.5"))
	// Exact digits are preserved, so the zero-padded hazard is visible
	assert.Equal(t, json.Number("007"), Guess("007"))
}

func TestGuess_Booleans(t *testing.T) {
	assert.Equal(t, true, Guess("true"))
	assert.Equal(t, true, Guess("TRUE"))
	assert.Equal(t, false, Guess("false"))
	assert.Equal(t, false, Guess("False"))
}

func TestGuess_Strings(t *testing.T) {
	assert.Equal(t, "hello", Guess("hello"))
	assert.Equal(t, "1.2.3", Guess("1.2.3"))
	assert.Equal(t, "12abc", Guess("12abc"))
	assert.Equal(t, "true story", Guess("true story"))
	// Scientific notation does not match the number shape
	assert.Equal(t, "1e5", Guess("1e5"))
}
