package wiki

import (
	"fmt"
	"os"
	"strings"
)

// DefaultSecretsFile is where bot credentials are read from by default.
const DefaultSecretsFile = "./secrets.txt"

// Credentials are the bot account used to log in.
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials reads a file whose first line is the username and second
// line the password. Surrounding whitespace is trimmed and later lines are
// ignored.
func LoadCredentials(path string) (Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%w: read credentials: %w", ErrConfig, err)
	}

	lines := strings.Split(string(raw), "\n")
	if len(lines) < 2 {
		return Credentials{}, fmt.Errorf("%w: %s must hold a username and a password on separate lines", ErrConfig, path)
	}
	creds := Credentials{
		Username: strings.TrimSpace(lines[0]),
		Password: strings.TrimSpace(lines[1]),
	}
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf("%w: %s has an empty username or password", ErrConfig, path)
	}
	return creds, nil
}
