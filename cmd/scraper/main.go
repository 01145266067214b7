package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"go-linkedin-scraper/internal/config"
	"go-linkedin-scraper/internal/reporter"
	"go-linkedin-scraper/internal/scraper"
	"go-linkedin-scraper/internal/scraper/linkedin"
	"go-linkedin-scraper/internal/secrets"
)

type output struct {
	Results []scraper.JobPosting `json:"results"`
	Message string               `json:"message,omitempty"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath   = flag.String("config", "", "yaml config path (default $SCRAPER_CONFIG or "+config.DefaultPath+")")
		keyword      = flag.String("keyword", scraper.DefaultKeyword, "search keyword")
		location     = flag.String("location", scraper.DefaultLocation, "search location")
		exclude      = flag.String("exclude", "", "comma separated words that drop a posting")
		modality     = flag.String("modality", "", "remoto|hibrido|presencial (or remote|hybrid|onsite)")
		timeFilter   = flag.String("time", "", "1h|2h|3h|6h|12h|24h|72h")
		notify       = flag.Bool("notify", false, "send the results (or the failure) to Telegram")
		savePassword = flag.Bool("save-password", false, "store LINKEDIN_PASSWORD in the OS keyring for LINKEDIN_EMAIL and exit")
	)
	flag.Parse()

	if *savePassword {
		_ = godotenv.Load()
		email := os.Getenv("LINKEDIN_EMAIL")
		if err := secrets.SetPassword(email, os.Getenv("LINKEDIN_PASSWORD")); err != nil {
			return fmt.Errorf("failed to store password: %w", err)
		}
		log.Printf("🔑 Password for %s stored in the keyring (%s).", email, secrets.KeyringService)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	q := scraper.NewSearchQuery(*keyword, *location, strings.Split(*exclude, ","), *modality, *timeFilter)

	var rep *reporter.TelegramReporter
	if *notify && cfg.Telegram.Enabled() {
		if rep, err = reporter.NewTelegramReporter(cfg.Telegram); err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
			rep = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout)
	defer cancel()

	log.Println("🚀 Starting LinkedIn job search...")
	s := linkedin.New(cfg, linkedin.NewLauncher(cfg.Browser), nil, nil)
	page, err := s.Run(ctx, q)
	if err != nil {
		if rep != nil {
			if nerr := rep.NotifyError(q, err); nerr != nil {
				log.Printf("⚠️ Failed to send error to Telegram: %v", nerr)
			}
		}
		return fmt.Errorf("%s scraper failed: %w", s.Name(), err)
	}

	out := output{Results: page.Postings, Message: page.Message}
	if out.Results == nil {
		out.Results = []scraper.JobPosting{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Println(string(data))
	saveResults(cfg.LogDir, data)

	if rep != nil {
		if err := rep.NotifyResults(q, page); err != nil {
			log.Printf("⚠️ Failed to send results to Telegram: %v", err)
		}
	}

	log.Println("🏁 Execution finished.")
	return nil
}

func saveResults(logDir string, data []byte) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write logs file: %v", err)
		return
	}
	log.Printf("📁 Results saved to %s", filePath)
}
