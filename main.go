package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"typograph/api/handlers"
	"typograph/api/router"
	"typograph/config"
	"typograph/db"
	"typograph/eventbus"
	"typograph/events"
	"typograph/logger"
	"typograph/repositories"
	"typograph/services"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	if err := db.Init(context.Background()); err != nil {
		log.Fatal("failed to initialize MongoDB: ", err)
	}

	var bus eventbus.EventBus = eventbus.NoopEventBus{}
	if cfg.Kafka.Brokers != "" {
		kb, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal("failed to initialize Kafka producer: ", err)
		}
		bus = kb
	}
	defer bus.Close()
	recorder := events.NewRecorder(bus, cfg.Kafka.Topic)

	articleRepo := repositories.NewArticleRepository(db.Database())
	categoryRepo := repositories.NewCategoryRepository(db.Database())
	resourceRepo := repositories.NewResourceRepository(db.Database())
	userRepo := repositories.NewUserRepository(db.Database())

	urls := services.NewURLBuilder(cfg.Site.BaseURL, cfg.Files.PublicPath)
	pings := services.NewTrackbackNotifier(time.Duration(cfg.Trackback.TimeoutSeconds) * time.Second)

	authSvc := services.NewAuthService(userRepo)
	postSvc := services.NewMetaWeblogService(articleRepo, categoryRepo, cfg.Defaults, urls, pings, recorder)
	mediaSvc := services.NewMediaService(resourceRepo, cfg.Files.Dir, urls, recorder)

	mw := handlers.NewMetaWeblogHandler(authSvc, postSvc, mediaSvc)
	r := router.New(mw, cfg.Files.Dir, cfg.Files.PublicPath)

	logger.Log.Infof("listening addr=%s", cfg.HTTP.Addr)
	if err := r.Run(cfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
