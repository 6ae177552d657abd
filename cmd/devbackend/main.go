package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"checkpoint/internal/devbackend"
)

func main() {
	_ = godotenv.Load()

	r := devbackend.NewRouter(devbackend.NewStore())

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	addr := ":" + port
	log.Printf("Dev backend running on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
