package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) TestIsValidPublicKey() {
	tests := []struct {
		desc       string
		key        string
		expIsValid bool
	}{
		{
			desc:       "too short",
			key:        "0x000",
			expIsValid: false,
		},
		{
			desc:       "missing 0x prefix",
			key:        "11a9c98e4ef7c7e6a5b383a1b94eb9350b3fd9a1ac28c326608e789343e0eb0e",
			expIsValid: false,
		},
		{
			desc:       "valid key",
			key:        "0x11a9c98e4ef7c7e6a5b383a1b94eb9350b3fd9a1ac28c326608e789343e0eb0e",
			expIsValid: true,
		},
		{
			desc:       "20 byte address is not a key",
			key:        "0x939ae6a4c8dfdbb1f7085189574f0a938013952a",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidPublicKey(t.key), t.desc)
	}
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
