package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFlagID(t *testing.T) {
	for range 50 {
		assert.Regexp(t, `^[a-z]{10}$`, NewFlagID())
	}
}

func TestNewFlag(t *testing.T) {
	for range 50 {
		assert.Regexp(t, `^FLAG_[a-z]{13}$`, NewFlag())
	}
}
