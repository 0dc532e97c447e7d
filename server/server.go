// File: server/server.go
package server

import (
	"github.com/bubblepop/bubblepop/bollywood"
	"github.com/bubblepop/bubblepop/utils"
)

// Server wires the websocket endpoints to the actor system.
type Server struct {
	engine     *bollywood.Engine
	managerPID *bollywood.PID
	cfg        utils.Config
}

// New creates a Server bound to an engine and a running session manager.
func New(engine *bollywood.Engine, managerPID *bollywood.PID, cfg utils.Config) *Server {
	return &Server{engine: engine, managerPID: managerPID, cfg: cfg}
}

func (s *Server) GetEngine() *bollywood.Engine  { return s.engine }
func (s *Server) GetManagerPID() *bollywood.PID { return s.managerPID }
func (s *Server) GetConfig() utils.Config       { return s.cfg }
