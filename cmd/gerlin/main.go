package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "create-admin":
		err = runCreateAdmin(os.Args[2:], os.Stdin)
	case "version":
		fmt.Printf("gerlin %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gerlin - website of the Associazione Don Mario Gerlin

Usage:
  gerlin <command> [arguments]

Commands:
  serve [-config file]          Run the web server
  create-admin [-config file] <email>
                                Create an admin account or reset its password
  version                       Print the version
  help                          Show this help message

Settings come from the optional YAML config file and GERLIN_* environment
variables, e.g. GERLIN_SESSION_SECRET or GERLIN_DATABASE_DSN.

Examples:
  gerlin serve -config gerlin.yaml
  GERLIN_ADMIN_PASSWORD=... gerlin create-admin admin@example.org`)
}
