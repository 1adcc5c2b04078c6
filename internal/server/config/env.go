package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration from the process environment, loading a
// .env file first if one exists in the working directory. Unset variables
// leave the current values untouched.
//
// Recognized variables: ADDRESS, DATABASE_DSN, REDIS_ADDR, REDIS_PASSWORD,
// REDIS_DB, JWT_SECRET, TOKEN_VALIDITY, OTP_LENGTH, OTP_VALIDITY,
// OTP_SENDS_PER_HOUR, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET, S3_REGION,
// S3_BASE_ENDPOINT, S3_KEY_PREFIX, EMAIL_API_KEY, EMAIL_SENDER.
func parseEnv(config *Config) {
	// Missing .env is not an error; the variables may come from the
	// actual environment.
	_ = godotenv.Load()

	setIfNotEmpty(&config.EndpointAddr, os.Getenv("ADDRESS"))
	setIfNotEmpty(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setIfNotEmpty(&config.RedisAddr, os.Getenv("REDIS_ADDR"))
	setIfNotEmpty(&config.RedisPassword, os.Getenv("REDIS_PASSWORD"))
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RedisDB = n
		}
	}
	setIfNotEmpty(&config.SecretKey, os.Getenv("JWT_SECRET"))
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("OTP_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.OTPLength = n
		}
	}
	if v := os.Getenv("OTP_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.OTPValidityDuration = d
		}
	}
	if v := os.Getenv("OTP_SENDS_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.OTPSendsPerHour = n
		}
	}
	setIfNotEmpty(&config.S3AccessKey, os.Getenv("S3_ACCESS_KEY"))
	setIfNotEmpty(&config.S3SecretKey, os.Getenv("S3_SECRET_KEY"))
	setIfNotEmpty(&config.S3Bucket, os.Getenv("S3_BUCKET"))
	setIfNotEmpty(&config.S3Region, os.Getenv("S3_REGION"))
	setIfNotEmpty(&config.S3BaseEndpoint, os.Getenv("S3_BASE_ENDPOINT"))
	setIfNotEmpty(&config.S3KeyPrefix, os.Getenv("S3_KEY_PREFIX"))
	setIfNotEmpty(&config.EmailAPIKey, os.Getenv("EMAIL_API_KEY"))
	setIfNotEmpty(&config.EmailSender, os.Getenv("EMAIL_SENDER"))
}
