// Command useradd provisions an API user account for the remote interface.
//
//	go run ./cmd/useradd -username seth -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"typograph/config"
	"typograph/db"
	"typograph/models"
	"typograph/repositories"
	"typograph/services"
)

func main() {
	username := flag.String("username", "", "account name used in XML-RPC calls")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	config.InitApp()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB: ", err)
	}

	hash, err := services.HashPassword(*password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	users := repositories.NewUserRepository(db.Database())
	u := &models.User{Username: *username, PasswordHash: hash}
	if err := users.Insert(ctx, u); err != nil {
		log.Fatal("failed to create user: ", err)
	}

	fmt.Printf("created user %s (%s)\n", u.Username, u.ID.Hex())
}
