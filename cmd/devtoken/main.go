// Command devtoken mints a signed bearer token for local testing. Accounts
// and credentials live upstream in production; this tool stands in for the
// identity provider during development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"shikayat/models"
	"shikayat/utils"
)

func main() {
	var (
		userID   = flag.Int64("user", 1, "user id to embed in the token")
		role     = flag.String("role", "super_admin", "role: super_admin, provincial_admin, district_admin, zonal_admin, citizen")
		province = flag.Int64("province", 0, "province binding (0 = unset)")
		district = flag.Int64("district", 0, "district binding (0 = unset)")
		tehsil   = flag.Int64("tehsil", 0, "tehsil binding (0 = unset)")
		secret   = flag.String("secret", os.Getenv("JWT_SECRET"), "signing secret (defaults to JWT_SECRET)")
		ttl      = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	parsedRole, ok := models.ParseRole(*role)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(1)
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "signing secret required (flag -secret or env JWT_SECRET)")
		os.Exit(1)
	}

	caller := models.Caller{UserID: *userID, Role: parsedRole}
	if *province != 0 {
		caller.ProvinceID = province
	}
	if *district != 0 {
		caller.DistrictID = district
	}
	if *tehsil != 0 {
		caller.TehsilID = tehsil
	}

	token, err := utils.GenerateJWT(caller, []byte(*secret), *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
