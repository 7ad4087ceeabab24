package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/saeidalz13/battleship-hotseat/api"
	"github.com/saeidalz13/battleship-hotseat/db"
	"github.com/saeidalz13/battleship-hotseat/db/sqlc"
)

func main() {
	if os.Getenv("STAGE") != api.StageProd {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}

	stage := os.Getenv("STAGE")
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	portEnv := os.Getenv("PORT")
	if _, err := strconv.Atoi(portEnv); err != nil {
		panic(err)
	}

	opts := []api.Option{
		api.WithPort(portEnv),
		api.WithStage(stage),
		api.WithAllowedOrigins(os.Getenv("ALLOWED_ORIGIN")),
	}

	// analytics are optional; the game never touches the database
	if psqlUrl := os.Getenv("DATABASE_URL"); psqlUrl != "" {
		psqlDb := db.MustConnectToDb(psqlUrl)
		defer psqlDb.Close()
		opts = append(opts, api.WithQuerier(sqlc.New(psqlDb)))
	} else {
		log.Println("DATABASE_URL not set; analytics disabled")
	}

	server := api.NewServer(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Fatalln(err)
	}
	log.Println("server stopped gracefully")
}
