package validation

import (
	"testing"

	"libloan/model"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(model.RegisterReq{
		Username:        "reader1",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}))

	// username below min length
	require.Error(t, v.Validate(model.RegisterReq{
		Username:        "ab",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}))

	require.Error(t, v.Validate(model.LoginReq{Username: "reader1"}))
}
