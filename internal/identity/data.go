package identity

var firstNames = []string{
	"Lara", "Alice", "Arthur", "João", "Bárbara", "Beatriz", "Pedro",
	"Lucas", "Rafael", "Paulo", "Fernanda", "Thiago", "Camila",
}

var surnames = []string{
	"Silva", "Souza", "Oliveira", "Santos", "Pereira",
	"Costa", "Almeida", "Rodrigues", "Gomes", "Barbosa",
}

// defaultDomains is the email domain pool used when a generator is built
// without WithDomains.
var defaultDomains = []string{
	"exemplo.com",
	"email.com",
	"teste.com",
	"mail.com",
}

// fallbackUsername replaces a name that normalizes to nothing.
const fallbackUsername = "usuario"

// DefaultDomains returns a copy of the built-in email domain pool.
func DefaultDomains() []string {
	return append([]string(nil), defaultDomains...)
}
