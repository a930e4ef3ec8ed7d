package main

import (
	"fmt"
	"os"

	"github.com/yungbote/roadmap-client/internal/devserver"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/utils"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := devserver.OpenStore(log)
	if err != nil {
		log.Fatal("Failed to open store", "error", err)
	}

	addr := utils.GetEnv("DEVSERVER_ADDR", ":8080", log)
	server := devserver.NewServer(log, store)
	if err := server.Run(addr); err != nil {
		log.Fatal("Dev server exited", "error", err)
	}
}
