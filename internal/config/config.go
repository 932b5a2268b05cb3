package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Token     string    `yaml:"token" env:"DISCORD_BOT_TOKEN"`
	Whitelist []string  `yaml:"whitelist" env:"ALFRED_WHITELIST" env-separator:","`
	Log       Log       `yaml:"log"`
	Gemini    Gemini    `yaml:"gemini"`
	Router    Router    `yaml:"router"`
	History   History   `yaml:"history"`
	Templates Templates `yaml:"templates"`
	Calendar  Calendar  `yaml:"calendar"`
	Search    Search    `yaml:"search"`
	YouTube   YouTube   `yaml:"youtube"`
	Agenda    Agenda    `yaml:"agenda"`
	HTTP      HTTP      `yaml:"http"`
	MCP       MCP       `yaml:"mcp"`
}

type Log struct {
	Level  string `yaml:"level" env:"ALFRED_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"ALFRED_LOG_FORMAT" env-default:"text"`
}

type Gemini struct {
	APIKey string `yaml:"apiKey" env:"GOOGLE_GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
}

// Router tunes intent classification. A zero threshold or timeout keeps the default.
type Router struct {
	Threshold float64       `yaml:"threshold" env-default:"0.6"`
	Timeout   time.Duration `yaml:"timeout" env-default:"15s"`
}

type History struct {
	Size   int           `yaml:"size" env-default:"10"`
	MaxAge time.Duration `yaml:"maxAge" env-default:"30m"`
}

// Templates holds optional paths overriding the embedded prompt templates.
type Templates struct {
	Router       string `yaml:"router"`
	Calendar     string `yaml:"calendar"`
	FunFact      string `yaml:"funFact"`
	Search       string `yaml:"search"`
	Conversation string `yaml:"conversation"`
}

type Calendar struct {
	CalendarID  string `yaml:"calendarId" env:"GOOGLE_CALENDAR_ID" env-default:"primary"`
	Timezone    string `yaml:"timezone" env:"ALFRED_TIMEZONE" env-default:"America/Los_Angeles"`
	Credentials string `yaml:"credentials" env:"GOOGLE_CREDENTIALS_PATH" env-default:"./credentials/google_credentials.json"`
	TokenFile   string `yaml:"tokenFile" env:"GOOGLE_TOKEN_PATH" env-default:"./token.json"`
}

type Search struct {
	SearxURL   string        `yaml:"searxUrl" env:"SEARX_URL"`
	MaxResults int           `yaml:"maxResults" env-default:"5"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
	// NoArticle skips fetching the top result's page.
	NoArticle  bool          `yaml:"noArticle" env:"SEARCH_NO_ARTICLE"`
}

type YouTube struct {
	YtDlpPath string        `yaml:"ytDlpPath" env:"YTDLP_PATH" env-default:"yt-dlp"`
	MaxBytes  int64         `yaml:"maxBytes" env-default:"26214400"`
	Timeout   time.Duration `yaml:"timeout" env-default:"5m"`
}

type Agenda struct {
	Schedule string `yaml:"schedule" env:"ALFRED_AGENDA_SCHEDULE"`
	UserID   string `yaml:"userId" env:"ALFRED_AGENDA_USER"`
}

type HTTP struct {
	Addr string `yaml:"addr" env:"ALFRED_HTTP_ADDR"`
}

type MCP struct {
	Addr string `yaml:"addr" env:"ALFRED_MCP_ADDR" env-default:":8089"`
	Path string `yaml:"path" env-default:"/mcp"`
}

func NewConfig(path string) Config {
	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

// FromEnv builds the config from environment variables only.
func FromEnv() Config {
	var cfg Config
	err := cleanenv.ReadEnv(&cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Location resolves the configured calendar timezone, falling back to UTC.
func (c Calendar) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
