package main

import (
	"context"
	"os"
	"time"

	"shelfstats-backend/lib/configutil"
	"shelfstats-backend/lib/scrapers/douban"
	"shelfstats-backend/lib/serviceutil"
	"shelfstats-backend/lib/telemetry"
	"shelfstats-backend/services/collections"
)

type ScrapeConfig struct {
	DelayMs  int `json:"delay_ms"`
	MaxPages int `json:"max_pages"`
	PageSize int `json:"page_size"`
}

type Config struct {
	Port    int                 `json:"port"`
	Verbose bool                `json:"verbose"`
	Origins collections.Origins `json:"origins"`
	Scrape  ScrapeConfig        `json:"scrape"`
}

func main() {
	ctx := serviceutil.SignalContext()

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8240
	}

	telemetry.InitSlog(cfg.Verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "shelfd")
	if err == nil {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	} else if !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	client, err := douban.NewClient(douban.ClientOptions{
		Referer: "https://www.douban.com/",
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize scrape client", err)
	}

	service := collections.NewService(client, collections.Options{
		Origins:  cfg.Origins,
		PageSize: cfg.Scrape.PageSize,
		MaxPages: cfg.Scrape.MaxPages,
		Delay:    time.Duration(cfg.Scrape.DelayMs) * time.Millisecond,
	})

	serviceutil.StartHttpServer(cfg.Port, newRouter(service))
}
