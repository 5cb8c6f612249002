// Package urlutils resolves short project identifiers into remote identities.
// It accepts an explicit HTTPS form and a permissive SSH/shorthand form:
//
//	https://github.com/owner/repo[.git]
//	owner/repo[.git]
//	github.com:owner/repo[.git]
//	git@github.com:owner/repo[.git]
//
// Resolution is pure and performs no I/O.
package urlutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NicabarNimble/go-gitproject/internal/errors"
)

// Protocol represents the transport used to reach a remote.
type Protocol string

const (
	// ProtocolHTTPS represents anonymous HTTPS transport
	ProtocolHTTPS Protocol = "https"
	// ProtocolSSH represents SSH transport authenticated through the agent
	ProtocolSSH Protocol = "ssh"
)

const (
	// DefaultHost is used when the identifier names no host
	DefaultHost = "github.com"
	// DefaultUser is the SSH user when the identifier names none
	DefaultUser = "git"

	gitSuffix = ".git"
)

var (
	// explicit protocol form, tried first
	httpsRegex = regexp.MustCompile(`^https://(?P<host>[^/\s]+)/(?P<owner>[^/\s]+)/(?P<repository>[^/\s]+)$`)

	// implicit SSH and shorthand form
	sshRegex = regexp.MustCompile(`^(?:(?:(?P<user>[^@\s/]+)@)?(?P<host>[^:@\s/]+)[:/])?(?P<owner>[^/:@\s]+)/(?P<repository>[^/\s]+)$`)
)

// Identity is a resolved remote project. It is a value type; copies never
// share state.
type Identity struct {
	Host       string
	Owner      string
	Repository string
	Protocol   Protocol
	// User is the SSH login; empty for HTTPS.
	User string
	// Raw is the input after the .git suffix was stripped.
	Raw string
}

// Resolve parses raw into an Identity. The HTTPS form is tried before the
// SSH form; input matching neither fails with an *errors.ParseError.
func Resolve(raw string) (Identity, error) {
	value := strings.TrimSuffix(raw, gitSuffix)

	if m := match(httpsRegex, value); m != nil {
		return Identity{
			Host:       m["host"],
			Owner:      m["owner"],
			Repository: m["repository"],
			Protocol:   ProtocolHTTPS,
			Raw:        value,
		}, nil
	}

	if m := match(sshRegex, value); m != nil {
		return Identity{
			Host:       withDefault(m["host"], DefaultHost),
			Owner:      m["owner"],
			Repository: m["repository"],
			Protocol:   ProtocolSSH,
			User:       withDefault(m["user"], DefaultUser),
			Raw:        value,
		}, nil
	}

	return Identity{}, errors.NewParseError(raw)
}

// MustResolve is like Resolve but panics on malformed input. Intended for
// tests and static tables.
func MustResolve(raw string) Identity {
	id, err := Resolve(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// ConnectUser returns the SSH login, defaulting to DefaultUser.
func (id Identity) ConnectUser() string {
	return withDefault(id.User, DefaultUser)
}

// URL returns the canonical clone URL for the identity.
func (id Identity) URL() string {
	switch id.Protocol {
	case ProtocolHTTPS:
		return fmt.Sprintf("https://%s/%s/%s", id.Host, id.Owner, id.Repository)
	default:
		return fmt.Sprintf("%s@%s:%s/%s", id.ConnectUser(), id.Host, id.Owner, id.Repository)
	}
}

// Slug returns "owner/repository".
func (id Identity) Slug() string {
	return id.Owner + "/" + id.Repository
}

func (id Identity) String() string {
	return id.URL()
}

func match(re *regexp.Regexp, value string) map[string]string {
	sub := re.FindStringSubmatch(value)
	if sub == nil {
		return nil
	}
	groups := make(map[string]string, len(sub))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = sub[i]
		}
	}
	return groups
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
