package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=3000"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`

	UploadDir      string `env:"UPLOAD_DIR,required=true"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL,default=http://localhost:3000/uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES,default=5242880"`

	AllowedOrigins  string `env:"ALLOWED_ORIGINS,default=*"`
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
}

// CharacterRune validates that the configured replacement is a single
// character.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// SplitList parses a comma-separated env value, dropping empty entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
