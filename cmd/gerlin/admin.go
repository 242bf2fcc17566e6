package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/donmariogerlin/gerlin"
	"github.com/donmariogerlin/gerlin/backend/auth"
	"github.com/donmariogerlin/gerlin/backend/sqlstore"
	"github.com/donmariogerlin/gerlin/content"
)

// runCreateAdmin creates or updates an admin account. The password is read
// from GERLIN_ADMIN_PASSWORD, or from the first line of stdin.
func runCreateAdmin(args []string, stdin io.Reader) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("GERLIN_CONFIG"), "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: gerlin create-admin [-config file] <email>")
	}
	email := strings.TrimSpace(fs.Arg(0))
	if !content.ValidEmail(email) {
		return fmt.Errorf("invalid email %q", email)
	}

	password := os.Getenv("GERLIN_ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	cfg, err := gerlin.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	store, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := auth.New(store, auth.NewMemoryRegistry(), []byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	if err := svc.SetPassword(context.Background(), email, password); err != nil {
		return err
	}
	fmt.Printf("Admin %s saved.\n", strings.ToLower(email))
	return nil
}
