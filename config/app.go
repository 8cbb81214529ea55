package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Ingestion
	UploadDir         string
	AllowedExtensions []string

	// Loan periods in days per publication type
	BookLoanDays     int
	MagazineLoanDays int

	// Translation collaborator
	TranslateURL     string
	TranslateAPIKey  string
	TranslateTimeout time.Duration
}
