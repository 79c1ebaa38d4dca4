package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
)

// password character classes
const (
	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"

	// DefaultSpecialChars is the special class used when none is configured.
	DefaultSpecialChars = "!@#$%^&*"
)

// username length bounds applied when the caller has no preference.
const (
	DefaultUsernameMinLen = 6
	DefaultUsernameMaxLen = 12
)

const defaultPasswordLen = 12

// Generator produces random identity data using crypto/rand.
type Generator struct {
	domains []string
}

// Option configures a Generator.
type Option func(*Generator)

// WithDomains replaces the email domain pool. Domains rejected by
// ValidateDomain are skipped; if none remain the built-in pool is kept.
func WithDomains(domains ...string) Option {
	return func(g *Generator) {
		var valid []string
		for _, d := range domains {
			if ValidateDomain(d) == nil {
				valid = append(valid, d)
			}
		}
		if len(valid) > 0 {
			g.domains = valid
		}
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{domains: defaultDomains}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FirstName picks a first name.
func (g *Generator) FirstName() string {
	return pick(firstNames)
}

// Surname picks a surname.
func (g *Generator) Surname() string {
	return pick(surnames)
}

// FullName joins an independently drawn first name and surname with a space.
func (g *Generator) FullName() string {
	return g.FirstName() + " " + g.Surname()
}

// Username derives a username from name, or from a fresh full name when name
// is empty. The result is padded with random digits up to minLen, cut to
// maxLen, and half the time carries a numeric suffix (still within maxLen).
func (g *Generator) Username(name string, minLen, maxLen int) (string, error) {
	if err := checkBounds(minLen, maxLen); err != nil {
		return "", fmt.Errorf("username: %w", err)
	}
	if name == "" {
		name = g.FullName()
	}
	return g.username(name, minLen, maxLen), nil
}

func (g *Generator) username(name string, minLen, maxLen int) string {
	base := Normalize(name)
	if base == "" {
		base = fallbackUsername
	}

	var b strings.Builder
	b.WriteString(base)
	for b.Len() < minLen {
		b.WriteByte(pick([]byte(digitChars)))
	}
	base = truncate(b.String(), maxLen)

	if chance(50) {
		return truncate(base+strconv.Itoa(randIntn(10000)), maxLen)
	}
	return base
}

// Email builds "local@domain". The local part is the normalized name (or a
// fresh full name when name is empty), usually followed by a number in
// [1, 9999]. An empty domain picks one from the generator's pool.
func (g *Generator) Email(name, domain string) (string, error) {
	if domain != "" {
		if err := ValidateDomain(domain); err != nil {
			return "", fmt.Errorf("email: %w", err)
		}
	}
	if name == "" {
		name = g.FullName()
	}
	return g.email(name, domain), nil
}

func (g *Generator) email(name, domain string) string {
	local := Normalize(name)
	if local == "" {
		local = fallbackUsername
	}
	if chance(70) {
		local += strconv.Itoa(1 + randIntn(9999))
	}
	if domain == "" {
		domain = pick(g.domains)
	}
	return local + "@" + domain
}

// PasswordOptions selects the character classes of a generated password.
// A Min* of zero means no minimum for that class; minimums of disabled
// classes are ignored.
type PasswordOptions struct {
	Length       int
	Lower        bool
	Upper        bool
	Digits       bool
	Special      bool
	MinLower     int
	MinUpper     int
	MinDigits    int
	MinSpecial   int
	SpecialChars string
}

// DefaultPasswordOptions returns a 12 character lower/upper/digit policy.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{
		Length:       defaultPasswordLen,
		Lower:        true,
		Upper:        true,
		Digits:       true,
		SpecialChars: DefaultSpecialChars,
	}
}

// Validate reports whether the options describe a password that can be built.
func (o PasswordOptions) Validate() error {
	if o.Length < 1 {
		return fmt.Errorf("%w: password length must be positive, got %d", errdefs.ErrInvalidArgument, o.Length)
	}
	for _, m := range []struct {
		name string
		n    int
	}{
		{"min lower", o.MinLower},
		{"min upper", o.MinUpper},
		{"min digits", o.MinDigits},
		{"min special", o.MinSpecial},
	} {
		if m.n < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", errdefs.ErrInvalidArgument, m.name, m.n)
		}
	}
	if !o.Lower && !o.Upper && !o.Digits && !o.Special {
		return fmt.Errorf("%w: at least one character class must be enabled", errdefs.ErrInvalidArgument)
	}
	// an empty special set only matters when something must be drawn from it
	if o.Special && o.SpecialChars == "" && (o.MinSpecial > 0 || (!o.Lower && !o.Upper && !o.Digits)) {
		return fmt.Errorf("%w: special class enabled with no special characters", errdefs.ErrInvalidArgument)
	}
	return nil
}

type charClass struct {
	pool    []rune
	enabled bool
	min     int
}

// classes lists the character classes in the order their minimums are drawn.
func (o PasswordOptions) classes() []charClass {
	return []charClass{
		{[]rune(lowerChars), o.Lower, o.MinLower},
		{[]rune(upperChars), o.Upper, o.MinUpper},
		{[]rune(digitChars), o.Digits, o.MinDigits},
		{[]rune(o.SpecialChars), o.Special, o.MinSpecial},
	}
}

// Password generates a password following opts. Per-class minimums are drawn
// first; if they add up to more than Length the result is those characters
// cut to Length, so minimums are not all honored in that case.
func (g *Generator) Password(opts PasswordOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", fmt.Errorf("password: %w", err)
	}

	classes := opts.classes()
	buf := make([]rune, 0, opts.Length)
	for _, c := range classes {
		if !c.enabled {
			continue
		}
		for range c.min {
			buf = append(buf, pick(c.pool))
		}
	}

	if len(buf) > opts.Length {
		buf = buf[:opts.Length]
		shuffle(buf)
		return string(buf), nil
	}

	var allowed []rune
	for _, c := range classes {
		if c.enabled {
			allowed = append(allowed, c.pool...)
		}
	}
	if len(allowed) == 0 {
		allowed = []rune(lowerChars)
	}

	for len(buf) < opts.Length {
		buf = append(buf, pick(allowed))
	}

	shuffle(buf)
	return string(buf), nil
}

// Persona generates a complete persona. Every option is checked before any
// random draw.
func (g *Generator) Persona(opts PersonaOptions) (Persona, error) {
	if err := checkBounds(opts.UsernameMin, opts.UsernameMax); err != nil {
		return Persona{}, fmt.Errorf("persona: username: %w", err)
	}
	if opts.Domain != "" {
		if err := ValidateDomain(opts.Domain); err != nil {
			return Persona{}, fmt.Errorf("persona: email: %w", err)
		}
	}
	if err := opts.Password.Validate(); err != nil {
		return Persona{}, fmt.Errorf("persona: password: %w", err)
	}

	first, last := g.FirstName(), g.Surname()
	name := first + " " + last

	pw, err := g.Password(opts.Password)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: %w", err)
	}

	return Persona{
		ID:        uuid.NewString(),
		FirstName: first,
		Surname:   last,
		Username:  g.username(name, opts.UsernameMin, opts.UsernameMax),
		Email:     g.email(name, opts.Domain),
		Password:  pw,
		CreatedAt: time.Now(),
	}, nil
}

// Normalize lowercases s and keeps only ASCII letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateDomain rejects email domains that contain '@', lack a '.', or
// start or end with '.'.
func ValidateDomain(domain string) error {
	if strings.Contains(domain, "@") {
		return fmt.Errorf("%w: domain %q must not contain '@'", errdefs.ErrInvalidArgument, domain)
	}
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("%w: domain %q must contain at least one '.'", errdefs.ErrInvalidArgument, domain)
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%w: domain %q must not start or end with '.'", errdefs.ErrInvalidArgument, domain)
	}
	return nil
}

func checkBounds(minLen, maxLen int) error {
	if minLen < 1 {
		return fmt.Errorf("%w: min length must be at least 1, got %d", errdefs.ErrInvalidArgument, minLen)
	}
	if maxLen < minLen {
		return fmt.Errorf("%w: max length %d below min length %d", errdefs.ErrInvalidArgument, maxLen, minLen)
	}
	return nil
}

// truncate cuts an ASCII string to at most n bytes.
func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// pick returns a random element from a slice.
func pick[T any](s []T) T {
	return s[randIntn(len(s))]
}

// chance reports true with probability pct/100.
func chance(pct int) bool {
	return randIntn(100) < pct
}

// shuffle permutes s in place using Fisher-Yates.
func shuffle[T any](s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// randIntn returns a cryptographically random int in [0, n).
func randIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}
