// Command hashpass prints an Argon2id hash for STOREFRONT_ADMIN_PASSWORD_HASH.
//
//	hashpass -password 'secret'
//	echo 'secret' | hashpass
//	hashpass -generate 20
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hastilong/storefront/pkg/config"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "hashpass", Output: os.Stderr, Format: "console"})
	ctx := context.Background()

	password := flag.String("password", "", "password to hash; read from stdin when empty")
	generate := flag.Int("generate", 0, "generate a random password of this length and hash it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	plain := *password
	switch {
	case *generate > 0:
		plain, err = security.GeneratePassword(*generate)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "password: %s\n", plain)
	case plain == "":
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logg.Error(ctx, "failed to read password from stdin", err)
			os.Exit(1)
		}
		plain = strings.TrimRight(line, "\r\n")
	}
	if plain == "" {
		logg.Warn(ctx, "empty password")
		os.Exit(2)
	}

	hash, err := security.HashPassword(plain, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
