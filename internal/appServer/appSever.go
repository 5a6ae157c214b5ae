// launching the server and wiring the render pipeline
package appServer

import (
	"context"
	"crypto/tls"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/portrait/config"
	"github.com/ds124wfegd/portrait/internal/category"
	"github.com/ds124wfegd/portrait/internal/outfit"
	"github.com/ds124wfegd/portrait/internal/pkg/assetcache"
	"github.com/ds124wfegd/portrait/internal/pkg/compositor"
	"github.com/ds124wfegd/portrait/internal/pkg/events"
	"github.com/ds124wfegd/portrait/internal/pkg/fetcher"
	"github.com/ds124wfegd/portrait/internal/profile"
	"github.com/ds124wfegd/portrait/internal/service"
	"github.com/ds124wfegd/portrait/internal/transport"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	fetchClient := fetcher.New(cfg.Fetch.Attempts, cfg.Fetch.Delay)
	assetCache := assetcache.New(fetchClient)
	var categories category.Resolver = category.NewTableResolver(cfg.Assets.CategoriesFile)
	if cfg.Assets.CategoryProbe {
		categories = category.NewProbeResolver(fetchClient, cfg.Assets.BaseURL, cfg.Fetch.ImageTimeout)
	}
	resolver := category.NewMemo(categories, cfg.Cache.DefaultTTL)
	assembler := outfit.NewAssembler(resolver)
	profileClient := profile.NewClient(fetchClient, cfg.Profile.InfoURL, cfg.Profile.Timeout, cfg.Profile.AllowedRegions)

	producer := events.NewNop()
	if cfg.Events.Enabled {
		producer = events.NewProducer(cfg.Events.Brokers, cfg.Events.Topic)
	}

	renderService := service.NewRenderService(cfg, assetCache, assembler, profileClient, compositor.New(), producer)
	renderHandler := transport.NewRenderHandler(renderService, cfg.Render.RequestTimeout)

	if cfg.Assets.Preload {
		go preloadStaticAssets(cfg, assetCache)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(renderHandler)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := producer.Close(); err != nil {
		logrus.Errorf("error occured on closing events producer: %s", err.Error())
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}

// preloadStaticAssets warms the template and font into the asset cache
// at boot, best-effort.
func preloadStaticAssets(cfg *config.Config, cache *assetcache.Cache) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := cache.GetOrFetch(ctx, cfg.Assets.TemplateURL(), cfg.Cache.StaticTTL, cfg.Fetch.ImageTimeout); err != nil {
		logrus.Warnf("template preload: %v", err)
	}
	if cfg.Assets.FontURL != "" {
		if _, err := cache.GetOrFetch(ctx, cfg.Assets.FontURL, cfg.Cache.StaticTTL, cfg.Fetch.FontTimeout); err != nil {
			logrus.Warnf("font preload: %v", err)
		}
	}
}
