package main

import (
	"flag"
	"net/http"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/handlers"
	"github.com/pressly/goose"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/slidecreator/core/generation"
	"github.com/slidecreator/core/manager"
	"github.com/slidecreator/core/repository"
	"github.com/slidecreator/core/server"
	"github.com/slidecreator/core/util/env"
)

var (
	configPath = flag.String("config", "config", "Path to YAML file containing config")
	httpPort   = flag.String("http-port", ":8888", "HTTP Port")
)

func main() {
	flag.Parse()

	initConfig()
	initLogging()

	db := repository.NewDB(viper.GetString("db.driverName"), viper.GetString("DB_DATASOURCE"))
	if err := goose.Run("up", db.Base(), "db"); err != nil {
		log.Fatalf("goose up: %v", err)
	}

	generationClient := generation.NewClient(generation.Config{
		Endpoint:    viper.GetString("OPENAI_ENDPOINT"),
		APIKey:      viper.GetString("OPENAI_API_KEY"),
		Model:       viper.GetString("OPENAI_MODEL"),
		Temperature: viper.GetFloat64("OPENAI_TEMPERATURE"),
	})

	resourceManager := manager.NewManager(db, generationClient)
	apiServer := server.NewServer(resourceManager)

	log.Printf("Starting HTTP server on port %v", *httpPort)
	if err := http.ListenAndServe(*httpPort, handlers.CORS()(apiServer.Routes())); err != nil {
		log.Fatalf("Failed to serve HTTP listener: %v", err)
	}
}

func initConfig() {
	viper.AutomaticEnv()
	viper.SetDefault("db.driverName", "postgres")
	viper.SetDefault("OPENAI_TEMPERATURE", 0.7)
	viper.SetConfigName("config")
	viper.AddConfigPath(*configPath)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Fatal error config file: %s", err)
	}
	// Watch for configuration change
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		// Read in config again
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Fatal error config file: %s", err)
		}
	})
}

func initLogging() {
	if env.GetEnv("LOGGING_ENABLE_CALLER_TRACE", "false") == "true" {
		log.SetReportCaller(true)
	}
}
