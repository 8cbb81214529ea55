package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

func Load() App {
	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		UploadDir:         getenv("UPLOAD_DIR", "uploads/documents"),
		AllowedExtensions: []string{"txt", "md", "doc", "docx", "pdf"},

		BookLoanDays:     getint("BOOK_LOAN_DAYS", 14),
		MagazineLoanDays: getint("MAGAZINE_LOAN_DAYS", 7),

		TranslateURL:     os.Getenv("TRANSLATE_URL"),
		TranslateAPIKey:  os.Getenv("TRANSLATE_API_KEY"),
		TranslateTimeout: getdur("TRANSLATE_TIMEOUT", 15*time.Second),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		slog.Warn("invalid int env, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		slog.Warn("invalid duration env, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
