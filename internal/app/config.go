package app

import (
	"time"

	"github.com/chordist/chordist-backend/internal/platform/envutil"
)

type Config struct {
	Port string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AiServerBaseURL  string
	AiServerMockMode bool

	UploadDir        string
	TranscriptionDir string

	PollInterval time.Duration
	JobMaxAge    time.Duration

	TuningPath string

	RedisAddr string
}

func LoadConfig() Config {
	return Config{
		Port: envutil.Get("PORT", "8080"),

		JWTSecretKey:    envutil.Get("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,

		AiServerBaseURL:  envutil.Get("AI_SERVER_BASE_URL", ""),
		AiServerMockMode: envutil.Bool("AI_SERVER_MOCK_MODE", true),

		UploadDir:        envutil.Get("UPLOAD_DIR", "data/uploads"),
		TranscriptionDir: envutil.Get("TRANSCRIPTION_DIR", "data/transcriptions"),

		// JobMaxAge of zero disables the age cutoff entirely.
		PollInterval: envutil.Duration("TRANSCRIPTION_POLL_INTERVAL", 3*time.Second),
		JobMaxAge:    envutil.Duration("TRANSCRIPTION_JOB_MAX_AGE", 30*time.Minute),

		TuningPath: envutil.Get("TRANSCRIPTION_CONFIG_PATH", ""),

		RedisAddr: envutil.Get("REDIS_ADDR", ""),
	}
}
