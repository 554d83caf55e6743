// Package admincli implements the operator command that provisions
// administrator accounts, which the public signup endpoint does not create.
package admincli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/campusevents/internal/common"
	"github.com/dmitrijs2005/campusevents/internal/flagx"
	"github.com/dmitrijs2005/campusevents/internal/server/models"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyField       = errors.New("value must not be empty")
)

type AdminCreator interface {
	CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

// Options are the values given on the command line. Empty values are
// prompted for.
type Options struct {
	Name  string
	Email string
}

// ParseOptions reads -name and -email from args, ignoring anything else.
func ParseOptions(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Name, "name", "", "display name of the admin")
	fs.StringVar(&o.Email, "email", "", "email (login) of the admin")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-name", "--name", "-email", "--email"})); err != nil {
		return Options{}, err
	}
	return o, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Run collects the missing admin details interactively and creates the
// account through creator.
func Run(ctx context.Context, creator AdminCreator, opts Options, in *bufio.Reader, out io.Writer) (*models.User, error) {
	var err error

	if opts.Name == "" {
		opts.Name, err = GetSimpleText(in, "Admin name (empty for \"User\")", out)
		if err != nil {
			return nil, err
		}
	}

	if opts.Email == "" {
		opts.Email, err = GetSimpleText(in, "Admin email", out)
		if err != nil {
			return nil, err
		}
	}
	if opts.Email == "" {
		return nil, fmt.Errorf("email: %w", ErrEmptyField)
	}

	pw, err := GetPassword("Password", out)
	if err != nil {
		return nil, err
	}
	defer wipe(pw)

	if len(pw) == 0 {
		return nil, fmt.Errorf("password: %w", ErrEmptyField)
	}

	confirm, err := GetPassword("Repeat password", out)
	if err != nil {
		return nil, err
	}
	defer wipe(confirm)

	if !bytes.Equal(pw, confirm) {
		return nil, ErrPasswordMismatch
	}

	user, err := creator.CreateAdmin(ctx, opts.Name, opts.Email, string(pw))
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%s is already registered", opts.Email)
		}
		return nil, err
	}

	fmt.Fprintf(out, "Admin created: id=%s email=%s\n", user.ID, user.Email)
	return user, nil
}
