package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Dividend Screener Configuration

[screener]
# Liquidity floor: retain only records with dollar volume strictly above this
min_dollar_volume = 1000000
# Yield floor: retain only records with dividend yield % strictly above this
min_yield_pct = 3.0
# Scan window start: today minus this many calendar days
lookback_days = 1
# Scan window end: today plus this many business days
lookahead_business_days = 10
# Concurrent price-history fetches (1 = sequential)
concurrency = 1

[calendar]
# Dividend calendar endpoint
base_url = "https://api.nasdaq.com/api/calendar/dividends"
timeout_seconds = 30
# The calendar service rejects requests without browser-like headers
user_agent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
origin = "https://www.nasdaq.com"
referer = "https://www.nasdaq.com"

[marketdata]
# Daily price history endpoint (chart API)
base_url = "https://query1.finance.yahoo.com/v8/finance/chart"
# Calendar days of history fetched per ticker; at least ~70 trading days
# are needed for a defined 50-period moving average
history_days = 100
timeout_seconds = 30

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to console
console = true
# Log to rotating file under ~/.config/dividend-screener/logs
file = true
`

// createTemplateConfig writes a template config file for the user to edit.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}
