// Package cli implements zfake's command-line subcommands.
package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zarlcorp/zfake/internal/config"
	"github.com/zarlcorp/zfake/internal/identity"
	"github.com/zarlcorp/zfake/internal/validate"
)

// ErrInvalid is returned by the check commands when the value breaks a rule.
var ErrInvalid = errors.New("value is invalid")

// CmdName prints a full name, or only one part with --first or --last.
func CmdName(w io.Writer, cfg config.Config, args []string) error {
	fs := newFlagSet("name")
	first := fs.Bool("first", false, "print only a first name")
	last := fs.Bool("last", false, "print only a surname")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *first && *last {
		return errors.New("name: --first and --last are mutually exclusive")
	}

	g := cfg.NewGenerator()
	switch {
	case *first:
		fmt.Fprintln(w, g.FirstName())
	case *last:
		fmt.Fprintln(w, g.Surname())
	default:
		fmt.Fprintln(w, g.FullName())
	}
	return nil
}

// CmdUsername generates and prints a username.
func CmdUsername(w io.Writer, cfg config.Config, args []string) error {
	fs := newFlagSet("username")
	name := fs.String("name", "", "base name (default: random full name)")
	minLen := fs.Int("min", cfg.Generator.UsernameMin, "minimum length")
	maxLen := fs.Int("max", cfg.Generator.UsernameMax, "maximum length")
	if err := parse(fs, args); err != nil {
		return err
	}

	u, err := cfg.NewGenerator().Username(*name, *minLen, *maxLen)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, u)
	return nil
}

// CmdEmail generates and prints an email address.
func CmdEmail(w io.Writer, cfg config.Config, args []string) error {
	fs := newFlagSet("email")
	name := fs.String("name", "", "base name (default: random full name)")
	domain := fs.String("domain", "", "email domain (default: random from pool)")
	if err := parse(fs, args); err != nil {
		return err
	}

	email, err := cfg.NewGenerator().Email(*name, *domain)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, email)
	return nil
}

// CmdPassword generates and prints a password.
func CmdPassword(w io.Writer, cfg config.Config, args []string) error {
	opts := cfg.PasswordOptions()

	fs := newFlagSet("password")
	fs.IntVar(&opts.Length, "length", opts.Length, "password length")
	noLower := fs.Bool("no-lower", false, "exclude lowercase letters")
	noUpper := fs.Bool("no-upper", false, "exclude uppercase letters")
	noDigits := fs.Bool("no-digits", false, "exclude digits")
	fs.BoolVar(&opts.Special, "special", opts.Special, "include special characters")
	fs.IntVar(&opts.MinLower, "min-lower", opts.MinLower, "minimum lowercase letters")
	fs.IntVar(&opts.MinUpper, "min-upper", opts.MinUpper, "minimum uppercase letters")
	fs.IntVar(&opts.MinDigits, "min-digits", opts.MinDigits, "minimum digits")
	fs.IntVar(&opts.MinSpecial, "min-special", opts.MinSpecial, "minimum special characters")
	fs.StringVar(&opts.SpecialChars, "chars", opts.SpecialChars, "special character set")
	if err := parse(fs, args); err != nil {
		return err
	}
	opts.Lower = opts.Lower && !*noLower
	opts.Upper = opts.Upper && !*noUpper
	opts.Digits = opts.Digits && !*noDigits

	pw, err := cfg.NewGenerator().Password(opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, pw)
	return nil
}

// CmdPersona generates and prints a complete persona.
func CmdPersona(w io.Writer, cfg config.Config, args []string) error {
	fs := newFlagSet("persona")
	asJSON := fs.Bool("json", false, "print as JSON")
	domain := fs.String("domain", "", "email domain (default: random from pool)")
	if err := parse(fs, args); err != nil {
		return err
	}

	opts := cfg.PersonaOptions()
	opts.Domain = *domain

	p, err := cfg.NewGenerator().Persona(opts)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(w, p)
	}
	printPersona(w, p)
	return nil
}

// CmdCheck validates an email, username or password.
func CmdCheck(w io.Writer, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: zfake check email|username|password [flags] [--] <value> [flags]")
	}

	kind, args := args[0], args[1:]
	switch kind {
	case "email":
		return checkEmail(w, args)
	case "username":
		return checkUsername(w, cfg, args)
	case "password":
		return checkPassword(w, cfg, args)
	default:
		return fmt.Errorf("check: unknown kind %q", kind)
	}
}

func checkEmail(w io.Writer, args []string) error {
	fs := newFlagSet("check email")
	value, err := parseValue(fs, args)
	if err != nil {
		return err
	}

	var failures []string
	if !validate.Email(value) {
		failures = append(failures, "malformed email")
	}
	return report(w, failures)
}

func checkUsername(w io.Writer, cfg config.Config, args []string) error {
	fs := newFlagSet("check username")
	minLen := fs.Int("min", cfg.Validator.UsernameMin, "minimum length")
	maxLen := fs.Int("max", cfg.Validator.UsernameMax, "maximum length")
	value, err := parseValue(fs, args)
	if err != nil {
		return err
	}

	failures, err := validate.UsernameFailures(value, *minLen, *maxLen)
	if err != nil {
		return err
	}
	return report(w, failures)
}

func checkPassword(w io.Writer, cfg config.Config, args []string) error {
	rules := cfg.PasswordRules()

	fs := newFlagSet("check password")
	fs.IntVar(&rules.MinLen, "min", rules.MinLen, "minimum length")
	noLower := fs.Bool("no-lower", false, "do not require a lowercase letter")
	noUpper := fs.Bool("no-upper", false, "do not require an uppercase letter")
	noDigits := fs.Bool("no-digits", false, "do not require a digit")
	fs.BoolVar(&rules.RequireSpecial, "special", rules.RequireSpecial, "require a special character")
	fs.StringVar(&rules.SpecialChars, "chars", rules.SpecialChars, "special character set")
	value, err := parseValue(fs, args)
	if err != nil {
		return err
	}
	rules.RequireLower = rules.RequireLower && !*noLower
	rules.RequireUpper = rules.RequireUpper && !*noUpper
	rules.RequireDigits = rules.RequireDigits && !*noDigits

	failures, err := validate.PasswordFailures(value, rules)
	if err != nil {
		return err
	}
	return report(w, failures)
}

func report(w io.Writer, failures []string) error {
	if len(failures) == 0 {
		fmt.Fprintln(w, "valid")
		return nil
	}
	fmt.Fprintf(w, "invalid: %s\n", strings.Join(failures, "; "))
	return ErrInvalid
}

func printPersona(w io.Writer, p identity.Persona) {
	fmt.Fprintf(w, "  id:       %s\n", p.ID)
	fmt.Fprintf(w, "  name:     %s\n", p.FullName())
	fmt.Fprintf(w, "  username: %s\n", p.Username)
	fmt.Fprintf(w, "  email:    %s\n", p.Email)
	fmt.Fprintf(w, "  password: %s\n", p.Password)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("zfake "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parse rejects stray positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

// parseValue returns the single positional value. Flags may come before or
// after it; a value starting with '-' must follow "--".
func parseValue(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() == 0 {
		return "", fmt.Errorf("%s: expected exactly one value, got 0", fs.Name())
	}

	value := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", err
	}
	if fs.NArg() > 0 {
		return "", fmt.Errorf("%s: expected exactly one value, got %d", fs.Name(), fs.NArg()+1)
	}
	return value, nil
}
