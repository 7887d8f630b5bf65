package server

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"VinylX/cache"
	"VinylX/config"
	"VinylX/core/album"
	"VinylX/core/lastfm"
	"VinylX/core/musicbrainz"
	"VinylX/core/odesli"
	"VinylX/core/ratelimit"
	"VinylX/core/search"
	"VinylX/db"
	"VinylX/logger"
	"VinylX/repository"

	"gorm.io/gorm"
)

// Clients 外部服务客户端。同一进程内 MusicBrainz 只有一个限速抓取器。
type Clients struct {
	MusicBrainz *musicbrainz.Client
	LastFM      *lastfm.Client
	Odesli      *odesli.Client
}

// NewResponseCache 根据配置选择响应缓存后端，Redis 连接失败时退回内存缓存
func NewResponseCache(cfg *config.Config) cache.ResponseCache {
	if cfg.CacheBackend == "redis" {
		client, err := cache.ConnectRedis(cfg)
		if err == nil {
			logger.Info("[App] response cache backed by Redis",
				logger.String("addr", cfg.RedisHost+":"+cfg.RedisPort))
			return cache.NewRedisResponseCache(client)
		}
		logger.Warn("[App] Redis unavailable, using in-memory response cache", logger.ErrorField(err))
	}
	return cache.NewMemoryResponseCache(10 * time.Minute)
}

// NewClients 创建外部服务客户端
func NewClients(cfg *config.Config, responses cache.ResponseCache) *Clients {
	fetcher := ratelimit.NewFetcher(ratelimit.Config{
		Host:      hostOf(cfg.MusicBrainzBaseURL),
		Interval:  cfg.MusicBrainzRateLimit,
		UserAgent: cfg.MusicBrainzUserAgent,
		Client:    &http.Client{Timeout: cfg.MusicBrainzTimeout},
	})

	return &Clients{
		MusicBrainz: musicbrainz.NewClient(musicbrainz.Config{
			BaseURL:         cfg.MusicBrainzBaseURL,
			CoverArtBaseURL: cfg.CoverArtBaseURL,
			Fetcher:         fetcher,
			Cache:           responses,
		}),
		LastFM: lastfm.NewClient(lastfm.Config{
			BaseURL: cfg.LastFMBaseURL,
			APIKey:  cfg.LastFMAPIKey,
		}),
		Odesli: odesli.NewClient(odesli.Config{
			BaseURL:     cfg.OdesliBaseURL,
			UserCountry: cfg.OdesliUserCountry,
			Cache:       responses,
		}),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// App 组装好的专辑流水线
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	Clients      *Clients
	Orchestrator *search.Orchestrator
	Resolver     *album.Resolver
	Pool         *album.Pool
}

// NewApp 连接数据库、创建客户端并启动后台补全工作池
func NewApp(cfg *config.Config) (*App, error) {
	gdb, err := db.ConnectGormDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		_ = db.CloseGormDB()
		return nil, err
	}
	return NewAppWithDB(cfg, gdb, NewResponseCache(cfg)), nil
}

// NewAppWithDB 使用已建立的数据库连接组装流水线
func NewAppWithDB(cfg *config.Config, gdb *gorm.DB, responses cache.ResponseCache) *App {
	clients := NewClients(cfg, responses)
	albums := repository.NewGormAlbumRepository(gdb)
	tracks := repository.NewGormTrackRepository(gdb)

	hydrator := album.NewHydrator(clients.MusicBrainz, clients.Odesli, albums)
	pool := album.NewPool(hydrator, clients.MusicBrainz, album.PoolConfig{
		Workers:   cfg.HydrationWorkers,
		QueueSize: cfg.HydrationQueueSize,
	})

	return &App{
		Config:       cfg,
		DB:           gdb,
		Clients:      clients,
		Orchestrator: search.NewOrchestrator(clients.LastFM, clients.MusicBrainz, cfg.SearchHitTimeout),
		Resolver:     album.NewResolver(albums, tracks, clients.MusicBrainz, pool),
		Pool:         pool,
	}
}

// Close 先处理完补全队列，再关闭数据库和 Redis
func (a *App) Close() error {
	a.Pool.Close()
	var firstErr error
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			firstErr = fmt.Errorf("close database: %w", err)
		}
	}
	if err := cache.CloseRedis(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close redis: %w", err)
	}
	return firstErr
}
