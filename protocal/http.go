package protocal

import (
	"flag"
	"log"
	"os"
	"os/signal"

	"gemma-relay/configs"
	httpAdapter "gemma-relay/internal/adapters/input/http"
	"gemma-relay/internal/adapters/output/ollama"
	"gemma-relay/internal/application"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	app := fiber.New()
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	logrus.Info(configs.GetViper().Env)
	if configs.GetViper().App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	// Wire up the hexagonal architecture layers
	// Output adapter (Ollama client)
	ollamaClient, err := ollama.NewOllamaClientAdapter(configs.GetViper().Ollama)
	if err != nil {
		logrus.Fatalf("Failed to create Ollama client: %v", err)
	}
	// Application service (chat relay use cases)
	srv := application.NewChatService(ollamaClient, configs.GetViper().Ollama)
	// Input adapter (HTTP handler)
	hdl := httpAdapter.New(srv)

	app.Get("/swagger/*", swagger.HandlerDefault) // default

	api := app.Group("/api")
	{
		api.Get("/health", hdl.HealthCheck)
		api.Get("/check-ollama", hdl.CheckOllama)
		api.Post("/chat", hdl.Chat)
		api.Post("/chat/stream", hdl.ChatStream)
		api.Post("/chat/multimodal", hdl.ChatMultimodal)
		api.Get("/model-info", hdl.ModelInfo)
		api.Post("/switch-model", hdl.SwitchModel)
	}

	logrus.Println("Listerning on port: ", configs.GetViper().App.Port)
	err = app.Listen(":" + configs.GetViper().App.Port)
	if err != nil {
		return err
	}

	return nil
}
