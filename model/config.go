package model

// Config is the process configuration, loaded once at startup.
type Config struct {
	BotToken         string
	AppID            string
	DatabaseDriver   string
	DatabaseURL      string
	RedisURL         string
	CacheKeyPrefix   string
	HealthAddr       string
	OTLPEndpoint     string
	LogLevel         string
	LogFormat        string
	DeveloperUserIDs []string
	// GuildIDs limits command registration to these guilds; empty registers globally.
	GuildIDs []string
}
