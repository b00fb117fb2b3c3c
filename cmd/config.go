package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SmsBaseURL string
	SmsAPIKey  string

	KafkaHost          string
	KafkaTrackingTopic string

	OtpRateLimit       int
	OtpRateLimitWindow string
}
