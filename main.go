package main

import (
	"fmt"
	"net/http"

	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/game"
	"github.com/bubblepop/bubblepop/server"
	"github.com/bubblepop/bubblepop/utils"
	"golang.org/x/net/websocket"
)

func main() {
	cfg := utils.DefaultConfig()
	engine := bollywood.NewEngine()

	managerPID := engine.Spawn(bollywood.NewProps(game.NewSessionManagerProducer(engine, cfg)))
	if managerPID == nil {
		panic("failed to spawn session manager")
	}
	fmt.Printf("Session manager started: %s\n", managerPID.String())

	wsServer := server.New(engine, managerPID, cfg)

	http.Handle("/controller", websocket.Handler(wsServer.HandleController()))
	http.Handle("/watch", websocket.Handler(wsServer.HandleWatch()))
	http.HandleFunc("/highscores", wsServer.HandleHighScores())
	http.HandleFunc("/", wsServer.HandleStatus())

	fmt.Println("Listening on :3001")
	panic(http.ListenAndServe(":3001", nil))
}
