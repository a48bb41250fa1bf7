package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Username:    "yamada_unso",
		Password:    "password123",
		Email:       " Info@Yamada-Unso.JP ",
		CompanyName: " 山田運送株式会社 ",
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := validRegister()
	require.NoError(t, req.Validate())
	assert.Equal(t, "info@yamada-unso.jp", req.Email)
	assert.Equal(t, "山田運送株式会社", req.CompanyName)
}

func TestRegisterRequest_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*RegisterRequest)
		field string
	}{
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }, "username"},
		{"bad username chars", func(r *RegisterRequest) { r.Username = "山田" }, "username"},
		{"short password", func(r *RegisterRequest) { r.Password = "1234567" }, "password"},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"empty email", func(r *RegisterRequest) { r.Email = "" }, "email"},
		{"no company", func(r *RegisterRequest) { r.CompanyName = "  " }, "company_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mut(&req)
			err := req.Validate()
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
			assert.Len(t, fe, 1)
		})
	}
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	fe := FieldErrors{"b": "2", "a": "1"}
	assert.Equal(t, "a: 1; b: 2", fe.Error())
}

func TestProfileUpdate_Validate(t *testing.T) {
	p := ProfileUpdate{CompanyName: "  "}
	assert.Error(t, p.Validate())
	p.CompanyName = "佐藤物流"
	assert.NoError(t, p.Validate())
}
