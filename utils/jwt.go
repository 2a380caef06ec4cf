package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"shikayat/models"
)

// JWT claim keys shared by token generation and the auth middleware.
const (
	ClaimUserID     = "user_id"
	ClaimRole       = "role"
	ClaimProvinceID = "province_id"
	ClaimDistrictID = "district_id"
	ClaimTehsilID   = "tehsil_id"
)

// GenerateJWT mints a signed token carrying the caller's identity, role and
// jurisdiction binding. Accounts and credentials are managed upstream; this
// is used by tests and the dev token tool.
func GenerateJWT(caller models.Caller, secret []byte, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		ClaimUserID: caller.UserID,
		ClaimRole:   string(caller.Role),
		"exp":       now.Add(expiresIn).Unix(),
		"iat":       now.Unix(),
	}
	if caller.ProvinceID != nil {
		claims[ClaimProvinceID] = *caller.ProvinceID
	}
	if caller.DistrictID != nil {
		claims[ClaimDistrictID] = *caller.DistrictID
	}
	if caller.TehsilID != nil {
		claims[ClaimTehsilID] = *caller.TehsilID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
