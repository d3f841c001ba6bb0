package params

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type API struct {
	Addr          string
	CORSOrigins   []string
	SnapshotDepth int // levels per side in broadcast snapshots, 0 = all
}

type Feed struct {
	KafkaBrokers []string // empty disables the Kafka sink
	KafkaTopic   string
}

type Node struct {
	Tickers []string // books opened at startup
	LogFile string   // empty logs to stdout only
}

type Config struct {
	API  API
	Feed Feed
	Node Node
}

func Default() Config {
	return Config{
		API: API{
			Addr:          ":8080",
			CORSOrigins:   []string{"http://localhost:3000"},
			SnapshotDepth: 10,
		},
		Feed: Feed{
			KafkaTopic: "book-events",
		},
		Node: Node{
			Tickers: []string{"TRUMPWIN-24NOV05"},
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: env > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // .env in current directory
	}

	if addr := os.Getenv("BOOKD_API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if origins := os.Getenv("BOOKD_CORS_ORIGINS"); origins != "" {
		cfg.API.CORSOrigins = splitList(origins)
	}
	if depth := os.Getenv("BOOKD_SNAPSHOT_DEPTH"); depth != "" {
		if d, err := strconv.Atoi(depth); err == nil && d >= 0 {
			cfg.API.SnapshotDepth = d
		}
	}

	if brokers := os.Getenv("BOOKD_KAFKA_BROKERS"); brokers != "" {
		cfg.Feed.KafkaBrokers = splitList(brokers)
	}
	if topic := os.Getenv("BOOKD_KAFKA_TOPIC"); topic != "" {
		cfg.Feed.KafkaTopic = topic
	}

	if tickers := os.Getenv("BOOKD_TICKERS"); tickers != "" {
		cfg.Node.Tickers = splitList(tickers)
	}
	if logFile := os.Getenv("BOOKD_LOG_FILE"); logFile != "" {
		cfg.Node.LogFile = logFile
	}

	return cfg
}

// splitList parses a comma-separated list, trimming blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
