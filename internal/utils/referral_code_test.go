package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode(8)
	assert.NoError(t, err)
	assert.Len(t, code, 8)

	// Every character must come from the unambiguous alphabet.
	for _, c := range code {
		assert.True(t, strings.ContainsRune(referralAlphabet, c), "unexpected character %q", c)
	}
}

func TestGenerateReferralCode_InvalidLength(t *testing.T) {
	_, err := GenerateReferralCode(0)
	assert.Error(t, err)

	_, err = GenerateReferralCode(-1)
	assert.Error(t, err)
}
