package roster

import (
	"github.com/joho/godotenv"
)

// LoadEnv loads .env in production and .env.dev otherwise. A missing file is not an error.
func LoadEnv(isProd bool) {
	if isProd {
		_ = godotenv.Load(".env")
	} else {
		_ = godotenv.Load(".env.dev")
	}
}
