// Package admincli implements rpportal-admin, which provisions an ADMIN
// account or promotes an existing one.
package admincli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/flagx"
	"github.com/dmitrijs2005/rpportal/internal/server/models"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Bootstrapper creates or promotes the admin account.
type Bootstrapper interface {
	Bootstrap(ctx context.Context, email, password, handle string) (*models.Account, bool, error)
}

// Options are the flags owned by the admin tool. The database flags are
// parsed by the server config.
type Options struct {
	Email  string
	Handle string
}

// ParseOptions reads -email and -handle from args.
func ParseOptions(args []string) (Options, error) {
	var o Options

	fs := flag.NewFlagSet("rpportal-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.Email, "email", "", "admin email")
	fs.StringVar(&o.Handle, "handle", "", "optional game handle")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-handle"})); err != nil {
		return o, err
	}
	o.Email = strings.TrimSpace(o.Email)
	o.Handle = strings.TrimSpace(o.Handle)
	return o, nil
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo.
func GetPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Run prompts for whatever opts lacks and provisions the admin. The
// password is asked twice and only used when a new account is created.
func Run(ctx context.Context, b Bootstrapper, opts Options, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	email := opts.Email
	if email == "" {
		var err error
		if email, err = GetSimpleText(reader, "Admin email", out); err != nil {
			return fmt.Errorf("read email: %w", err)
		}
	}

	password, err := GetPassword("Password (leave empty to promote an existing account): ", out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password != "" {
		confirm, err := GetPassword("Repeat password: ", out)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	account, created, err := b.Bootstrap(ctx, email, password, opts.Handle)
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid input:\n  - %s", strings.Join(ve.Problems, "\n  - "))
		}
		return err
	}

	if created {
		fmt.Fprintf(out, "Created admin account %s (%s)\n", account.Email, account.ID)
	} else {
		fmt.Fprintf(out, "Account %s (%s) is now %s\n", account.Email, account.ID, account.Role)
	}
	return nil
}
