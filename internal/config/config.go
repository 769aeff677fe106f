package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"stockbot/internal/advisor"
)

// Holder is one portfolio owner and where their reports go.
type Holder struct {
	Name   string `yaml:"name"`
	ChatID string `yaml:"chat_id"` // Telegram chat id or WhatsApp phone number
	Email  string `yaml:"email"`
	Prefix string `yaml:"prefix"` // file name prefix for generated artifacts
}

// Config holds all application configuration.
type Config struct {
	Holders []Holder `yaml:"holders"`

	Input struct {
		HoldingsFile string `yaml:"holdings_file"`
		HolidayFile  string `yaml:"holiday_file"`
	} `yaml:"input"`
	Chat struct {
		Backend string `yaml:"backend"` // "telegram" or "greenapi"

		Telegram struct {
			BotToken string `yaml:"bot_token"`
			Polling  bool   `yaml:"polling"`
			AdminID  string `yaml:"admin_chat_id"`
		} `yaml:"telegram"`
		GreenAPI struct {
			BaseURL    string `yaml:"base_url"`
			MediaURL   string `yaml:"media_url"`
			IDInstance string `yaml:"id_instance"`
			APIToken   string `yaml:"api_token"`
		} `yaml:"greenapi"`
	} `yaml:"chat"`
	Email struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		Hours    []int  `yaml:"hours"`
	} `yaml:"email"`
	Speech struct {
		Enabled  bool   `yaml:"enabled"`
		Language string `yaml:"language"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"speech"`
	Gemini struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
	Market struct {
		IndexSymbol       string  `yaml:"index_symbol"`
		Timezone          string  `yaml:"timezone"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"market"`
	Advice struct {
		CommoditySymbols []string `yaml:"commodity_symbols"`
		TargetPct        float64  `yaml:"target_pct"`
		ThresholdPct     *float64 `yaml:"threshold_pct"` // nil means unset; 0 is a valid threshold
		ProfitBookingPct float64  `yaml:"profit_booking_pct"`
		HedgeTriggerPct  *float64 `yaml:"hedge_trigger_pct"`
		HedgeRatio       float64  `yaml:"hedge_ratio"`
		HedgeInstrument  string   `yaml:"hedge_instrument"`
	} `yaml:"advice"`
	Schedule struct {
		RunCron string `yaml:"run_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url"`
		Job            string `yaml:"job"`
	} `yaml:"metrics"`
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	Proxy     string `yaml:"proxy"`
}

// Load reads an optional .env file, then the YAML config, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Chat.Telegram.BotToken = v
	}
	if v := os.Getenv("ID_INSTANCE"); v != "" {
		cfg.Chat.GreenAPI.IDInstance = v
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.Chat.GreenAPI.APIToken = v
	}
	if v := os.Getenv("CHAT_BACKEND"); v != "" {
		cfg.Chat.Backend = v
	}
	if v := os.Getenv("EMAIL_USER"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("EMAIL_PASS"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HOLDINGS_FILE"); v != "" {
		cfg.Input.HoldingsFile = v
	}
	if v := os.Getenv("CRON_RUN"); v != "" {
		cfg.Schedule.RunCron = v
	}
	if v := os.Getenv("PUSHGATEWAY_URL"); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	// Phone numbers stay out of the YAML file: HOLDER_<NAME>_CHAT_ID overrides a holder's chat id.
	for i := range cfg.Holders {
		key := "HOLDER_" + strings.ToUpper(strings.ReplaceAll(cfg.Holders[i].Name, " ", "_")) + "_CHAT_ID"
		if v := os.Getenv(key); v != "" {
			cfg.Holders[i].ChatID = v
		}
	}
	if v := os.Getenv("EMAIL_HOURS"); v != "" {
		var hours []int
		for _, part := range strings.Split(v, ",") {
			if h, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				hours = append(hours, h)
			}
		}
		cfg.Email.Hours = hours
	}
}

func applyDefaults(cfg *Config) {
	def := advisor.DefaultSettings()

	if cfg.Input.HoldingsFile == "" {
		cfg.Input.HoldingsFile = "portfolio.csv"
	}
	if cfg.Input.HolidayFile == "" {
		cfg.Input.HolidayFile = "holidays.csv"
	}
	if cfg.Chat.Backend == "" {
		cfg.Chat.Backend = "telegram"
	}
	if cfg.Chat.GreenAPI.BaseURL == "" {
		cfg.Chat.GreenAPI.BaseURL = "https://api.green-api.com"
	}
	if cfg.Chat.GreenAPI.MediaURL == "" {
		cfg.Chat.GreenAPI.MediaURL = "https://media.green-api.com"
	}
	if cfg.Email.Host == "" {
		cfg.Email.Host = "smtp.gmail.com"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.Username
	}
	if cfg.Email.Hours == nil {
		cfg.Email.Hours = []int{9, 15}
	}
	if cfg.Speech.Language == "" {
		cfg.Speech.Language = "en"
	}
	if cfg.Speech.BaseURL == "" {
		cfg.Speech.BaseURL = "https://translate.google.com"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Market.IndexSymbol == "" {
		cfg.Market.IndexSymbol = "^NSEI"
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "Asia/Kolkata"
	}
	if cfg.Market.RequestsPerSecond == 0 {
		cfg.Market.RequestsPerSecond = 2
	}
	if cfg.Advice.CommoditySymbols == nil {
		cfg.Advice.CommoditySymbols = def.CommoditySymbols
	}
	if cfg.Advice.TargetPct == 0 {
		cfg.Advice.TargetPct = def.TargetPct.InexactFloat64()
	}
	if cfg.Advice.ThresholdPct == nil {
		v := def.ThresholdPct.InexactFloat64()
		cfg.Advice.ThresholdPct = &v
	}
	if cfg.Advice.ProfitBookingPct == 0 {
		cfg.Advice.ProfitBookingPct = def.ProfitBookingPct.InexactFloat64()
	}
	if cfg.Advice.HedgeTriggerPct == nil {
		v := def.HedgeTriggerPct
		cfg.Advice.HedgeTriggerPct = &v
	}
	if cfg.Advice.HedgeRatio == 0 {
		cfg.Advice.HedgeRatio = def.HedgeRatio.InexactFloat64()
	}
	if cfg.Advice.HedgeInstrument == "" {
		cfg.Advice.HedgeInstrument = def.HedgeInstrument
	}
	if cfg.Schedule.RunCron == "" {
		cfg.Schedule.RunCron = "0 15 9-15 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio_history.db"
	}
	if cfg.State.File == "" {
		cfg.State.File = "data/delivery_state.json"
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = "stockbot"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	for i := range cfg.Holders {
		if cfg.Holders[i].Prefix == "" {
			cfg.Holders[i].Prefix = strings.ToLower(strings.ReplaceAll(cfg.Holders[i].Name, " ", "_"))
		}
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Holders) == 0 {
		return fmt.Errorf("at least one holder is required")
	}
	for _, h := range c.Holders {
		if h.Name == "" {
			return fmt.Errorf("holders[].name is required")
		}
	}
	switch c.Chat.Backend {
	case "telegram":
		if c.Chat.Telegram.BotToken == "" {
			return fmt.Errorf("chat.telegram.bot_token is required")
		}
	case "greenapi":
		if c.Chat.GreenAPI.IDInstance == "" || c.Chat.GreenAPI.APIToken == "" {
			return fmt.Errorf("chat.greenapi.id_instance and api_token are required")
		}
	default:
		return fmt.Errorf("chat.backend must be telegram or greenapi, got %q", c.Chat.Backend)
	}
	for _, h := range c.Email.Hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("email.hours entries must be 0-23, got %d", h)
		}
	}
	if (c.Advice.ThresholdPct != nil && *c.Advice.ThresholdPct < 0) || c.Advice.TargetPct <= 0 || c.Advice.TargetPct >= 100 {
		return fmt.Errorf("advice.target_pct must be in (0,100) and threshold_pct non-negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the market time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return nil, fmt.Errorf("market.timezone: %w", err)
	}
	return loc, nil
}

// AdvisorSettings converts the advice section into evaluator settings.
func (c *Config) AdvisorSettings() advisor.Settings {
	s := advisor.DefaultSettings()
	s.CommoditySymbols = c.Advice.CommoditySymbols
	s.TargetPct = decimal.NewFromFloat(c.Advice.TargetPct)
	if c.Advice.ThresholdPct != nil {
		s.ThresholdPct = decimal.NewFromFloat(*c.Advice.ThresholdPct)
	}
	s.ProfitBookingPct = decimal.NewFromFloat(c.Advice.ProfitBookingPct)
	if c.Advice.HedgeTriggerPct != nil {
		s.HedgeTriggerPct = *c.Advice.HedgeTriggerPct
	}
	s.HedgeRatio = decimal.NewFromFloat(c.Advice.HedgeRatio)
	s.HedgeInstrument = c.Advice.HedgeInstrument
	return s
}

// EmailDue reports whether the hour of t is one of the configured email windows.
func (c *Config) EmailDue(t time.Time) bool {
	for _, h := range c.Email.Hours {
		if t.Hour() == h {
			return true
		}
	}
	return false
}
