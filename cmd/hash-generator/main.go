// Command hash-generator prints bcrypt hashes for the given passwords, for
// seeding users directly into a database.
//
//	hash-generator [--cost N] password...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskly-api/internal/service/auth"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("hash-generator", pflag.ContinueOnError)
	cost := flags.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New("usage: hash-generator [--cost N] password...")
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	hasher := auth.NewBcryptHasher(*cost)
	for _, password := range flags.Args() {
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", password, hash)
	}
	return nil
}
