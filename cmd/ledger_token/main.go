// Command ledger_token prints a bearer token for calling the ledger API.
//
//	go run ./cmd/ledger_token -sub bursar-1 -ttl 8h
//
// JWT_SECRET and JWT_ISSUER are read from the environment or .env, like the server does.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/school_ledger/internal/utils/token"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("JWT_ISSUER", "school-ledger")
	v.AutomaticEnv()

	subject := flag.String("sub", "", "user id recorded as created_by")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	signed, err := token.Generate(*subject, v.GetString("JWT_SECRET"), v.GetString("JWT_ISSUER"), *ttl)
	if err != nil {
		slog.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(signed)
}
