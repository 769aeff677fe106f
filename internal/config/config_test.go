package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
holders:
  - name: Selva Kumar
    chat_id: "111"
    email: selva@example.com
  - name: Anna
    chat_id: "222"
    prefix: afin
chat:
  backend: telegram
  telegram:
    bot_token: token-from-file
advice:
  commodity_symbols: [GOLD]
  threshold_pct: 7.5
email:
  hours: [10]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileThenEnvThenDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("HOLDER_SELVA_KUMAR_CHAT_ID", "999")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "token-from-env", cfg.Chat.Telegram.BotToken)
	assert.Equal(t, "999", cfg.Holders[0].ChatID)
	assert.Equal(t, "222", cfg.Holders[1].ChatID)
	assert.Equal(t, "selva_kumar", cfg.Holders[0].Prefix)
	assert.Equal(t, "afin", cfg.Holders[1].Prefix)
	assert.Equal(t, []int{10}, cfg.Email.Hours)
	assert.Equal(t, "^NSEI", cfg.Market.IndexSymbol)
	assert.Equal(t, "portfolio.csv", cfg.Input.HoldingsFile)

	s := cfg.AdvisorSettings()
	assert.Equal(t, []string{"GOLD"}, s.CommoditySymbols)
	assert.Equal(t, "7.5", s.ThresholdPct.String())
	assert.Equal(t, "50", s.TargetPct.String())
	assert.Equal(t, "0.15", s.HedgeRatio.String())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []int{9, 15}, cfg.Email.Hours)
	assert.Equal(t, []string{"GOLD", "SILVER"}, cfg.Advice.CommoditySymbols)
	assert.Error(t, cfg.Validate(), "no holders configured")
}

func TestValidate(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	cfg.Chat.Backend = "pigeon"
	assert.Error(t, cfg.Validate())

	cfg.Chat.Backend = "greenapi"
	assert.Error(t, cfg.Validate(), "green api credentials missing")
	cfg.Chat.GreenAPI.IDInstance = "1101"
	cfg.Chat.GreenAPI.APIToken = "abc"
	assert.NoError(t, cfg.Validate())

	cfg.Email.Hours = []int{24}
	assert.Error(t, cfg.Validate())
}

func TestEmailDue(t *testing.T) {
	cfg := &Config{}
	cfg.Email.Hours = []int{9, 15}
	loc := time.FixedZone("IST", 19800)
	assert.True(t, cfg.EmailDue(time.Date(2026, 10, 15, 9, 59, 0, 0, loc)))
	assert.True(t, cfg.EmailDue(time.Date(2026, 10, 15, 15, 0, 0, 0, loc)))
	assert.False(t, cfg.EmailDue(time.Date(2026, 10, 15, 10, 0, 0, 0, loc)))
}

func TestLoad_ZeroThresholdsKept(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
advice:
  threshold_pct: 0
  hedge_trigger_pct: 0
`))
	require.NoError(t, err)

	s := cfg.AdvisorSettings()
	assert.True(t, s.ThresholdPct.IsZero())
	assert.Equal(t, 0.0, s.HedgeTriggerPct)

	unset, err := Load(writeConfig(t, "advice:\n  target_pct: 40\n"))
	require.NoError(t, err)
	s = unset.AdvisorSettings()
	assert.Equal(t, "5", s.ThresholdPct.String())
	assert.Equal(t, -2.0, s.HedgeTriggerPct)
}
