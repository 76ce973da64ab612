package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// DatabaseURL selects the Postgres-backed stores when set; empty keeps
	// the in-memory stores for local development.
	DatabaseURL string

	// RedisURL enables the token revocation list; empty disables the check.
	RedisURL string

	// KafkaBrokers enables the Kafka audit sink; empty keeps the in-memory
	// audit store only.
	KafkaBrokers []string

	// UploadDir is the filesystem blob store root.
	UploadDir string

	// PublicBaseURL is the externally reachable base used inside issued
	// verification QR codes.
	PublicBaseURL string

	// CascadeFile points at the pigo facefinder cascade used by the capture gate.
	CascadeFile string
}

// ShutdownTimeout bounds graceful shutdown on SIGINT.
var ShutdownTimeout = 10 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("EREGISTER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	cascade := os.Getenv("CASCADE_FILE")
	if cascade == "" {
		cascade = "cascade/facefinder"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     "eregister",
		JWTAudience:   "eregister-api",
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaBrokers:  brokers,
		UploadDir:     uploadDir,
		PublicBaseURL: strings.TrimRight(baseURL, "/"),
		CascadeFile:   cascade,
	}
}
