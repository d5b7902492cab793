package validator

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// IsValidPublicKey returns whether a 32-byte hex encoded public key is valid or not
func IsValidPublicKey(key string) bool {
	raw, err := hexutil.Decode(key)
	if err != nil {
		return false
	}
	return len(raw) == 32
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
