package main

import (
	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/prorated-billing/internal/cli"
)

func main() {
	// .env нужен только локально, в контейнере переменные задаёт окружение
	_ = godotenv.Load()
	cli.Execute()
}
