package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port         string   `env:"SERVER_PORT" envDefault:"5250"`
		AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Database configuration
	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/records.db"`
	}

	// Matching heuristics, tunable without code changes.
	Matching struct {
		// Area bucket width (pyeong) for the anomaly median
		AnomalyAreaBand int `env:"ANOMALY_AREA_BAND" envDefault:"5"`

		// Minimum listings per bucket before a median is judged
		AnomalyMinBucket int `env:"ANOMALY_MIN_BUCKET" envDefault:"3"`

		// Flag listings below this fraction of the bucket median
		AnomalyThreshold float64 `env:"ANOMALY_THRESHOLD" envDefault:"0.5"`

		// Area tolerance (pyeong) for the jeonse-rate fallback match
		JeonseAreaTolerance float64 `env:"JEONSE_AREA_TOLERANCE" envDefault:"3"`

		// Default page size for property listings
		PageSize int `env:"PAGE_SIZE" envDefault:"20"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of records to accumulate before processing
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Ingest configuration for the ministry trade API and commute updates
	Ingest struct {
		MolitBaseURL   string   `env:"MOLIT_BASE_URL" envDefault:"https://apis.data.go.kr/1613000"`
		MolitKey       string   `env:"MOLIT_SERVICE_KEY"`
		OdsayBaseURL   string   `env:"ODSAY_BASE_URL" envDefault:"https://api.odsay.com/v1/api"`
		OdsayKey       string   `env:"ODSAY_API_KEY"`
		KakaoKey       string   `env:"KAKAO_REST_KEY"`
		RegionCodes    []string `env:"REGION_CODES" envSeparator:","`
		MonthsBack     int      `env:"INGEST_MONTHS_BACK" envDefault:"3"`
		WorkplaceLat   float64  `env:"WORKPLACE_LAT" envDefault:"37.4979"`
		WorkplaceLon   float64  `env:"WORKPLACE_LON" envDefault:"127.0276"`
		RequestTimeout int      `env:"INGEST_TIMEOUT_SECONDS" envDefault:"30"`
	}

	// Telegram alerting configuration
	Telegram struct {
		BotToken string   `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string   `env:"TELEGRAM_CHAT_ID"`
		Enabled  bool     `env:"TELEGRAM_ENABLED" envDefault:"false"`
		Wishlist []string `env:"TELEGRAM_WISHLIST" envSeparator:","`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
