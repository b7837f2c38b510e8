package config

import "time"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenExpiration   time.Duration `mapstructure:"token_expiration"`
	TOTPIssuer        string        `mapstructure:"totp_issuer"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type LockoutConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type SMTPConfig struct {
	Server      string        `mapstructure:"server"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	From        string        `mapstructure:"from"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	MaxHits int           `mapstructure:"max_hits"`
	Window  time.Duration `mapstructure:"window"`
}

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Session   SessionConfig   `mapstructure:"session"`
	Lockout   LockoutConfig   `mapstructure:"lockout"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}
