// Command hashpw prints a bcrypt hash for seeding an admin account.
// The password is read from ADMIN_PASSWORD so it never appears in shell history.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Dan9191/club-service/internal/auth"
	"github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", "", "print an INSERT statement for this admin")
	cost := flag.Int("cost", 0, "bcrypt cost (0 uses the library default)")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Fatal("ADMIN_PASSWORD is required")
	}

	hash, err := auth.HashPassword(password, *cost)
	if err != nil {
		logger.Fatalf("Failed to hash password: %v", err)
	}

	if *username == "" {
		fmt.Println(hash)
		return
	}
	fmt.Printf("INSERT INTO admin_users (username, password_hash) VALUES ('%s', '%s');\n",
		strings.ReplaceAll(*username, "'", "''"), hash)
}
