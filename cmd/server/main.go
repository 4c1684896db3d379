package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"socialchat/internal/app"
	"socialchat/internal/config"
)

// @title                       socialchat API
// @version                     1.0
// @description                 Группы, посты, контакты, уведомления и чат в реальном времени.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	flag.Parse()

	// .env необязателен: APP_* могут прийти из окружения
	_ = godotenv.Load()

	if err := app.Run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}
