package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validReg() registerReq {
	return registerReq{
		FirstName:      "Avery",
		LastName:       "Lee",
		Email:          "avery@example.com",
		Password:       "hunter22!",
		RestaurantName: "The Copper Pan",
		Subdomain:      "copper-pan",
	}
}

func TestValidateRegisterAccepts(t *testing.T) {
	assert.Empty(t, validateRegister(validReg()))
}

func TestValidateRegisterFieldErrors(t *testing.T) {
	cases := map[string]struct {
		mutate func(*registerReq)
		field  string
	}{
		"missing first name": {func(r *registerReq) { r.FirstName = " " }, "firstName"},
		"missing last name":  {func(r *registerReq) { r.LastName = "" }, "lastName"},
		"bad email":          {func(r *registerReq) { r.Email = "not-an-email" }, "email"},
		"short password":     {func(r *registerReq) { r.Password = "short" }, "password"},
		"missing restaurant": {func(r *registerReq) { r.RestaurantName = "" }, "restaurantName"},
		"bad subdomain":      {func(r *registerReq) { r.Subdomain = "Copper Pan!" }, "subdomain"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validReg()
			tc.mutate(&req)
			fields := validateRegister(req)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestValidSubdomain(t *testing.T) {
	good := []string{"copperpan", "copper-pan", "cafe42", "a"}
	for _, s := range good {
		assert.True(t, validSubdomain(s), s)
	}
	bad := []string{"-leading", "trailing-", "UPPER", "has space", "dots.bad"}
	for _, s := range bad {
		assert.False(t, validSubdomain(s), s)
	}
}
