package dotenv

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load подгружает .env (если он есть) и флаги, которые перекрывают окружение.
// В контейнере .env нет, переменные приходят из окружения.
func Load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var portFlag, providersFlag string
	flag.StringVar(&portFlag, "port", "", "Server port (overrides PORT environment variable)")
	flag.StringVar(&providersFlag, "providers", "", "Providers catalog path (overrides PROVIDERS_CONFIG)")
	flag.Parse()

	overrides := map[string]string{
		"PORT":             portFlag,
		"PROVIDERS_CONFIG": providersFlag,
	}
	for key, val := range overrides {
		if val == "" {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("failed to set %s environment variable: %w", key, err)
		}
	}
	return nil
}
