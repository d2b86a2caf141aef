package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/avstrong/orderform/internal/form"
	"github.com/avstrong/orderform/internal/logger"
)

type Server struct {
	srv    *http.Server
	router *http.ServeMux
	l      *logger.Logger
	conf   Conf
	form   *form.Form
}

type Conf struct {
	L                 *logger.Logger
	ServerLogger      *log.Logger
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	// Inbox mounts a local form backend on POST / so the default form action has a receiver.
	Inbox bool
}

func New(ctx context.Context, conf Conf, orderForm *form.Form) (*Server, error) {
	mux := http.NewServeMux()

	//nolint:exhaustruct
	srv := &http.Server{
		Addr:              net.JoinHostPort(conf.Host, conf.Port),
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		ErrorLog:          conf.ServerLogger,
		Handler:           mux,
		BaseContext: func(listener net.Listener) context.Context {
			return ctx
		},
	}

	server := &Server{
		srv:    srv,
		router: mux,
		l:      conf.L,
		conf:   conf,
		form:   orderForm,
	}

	server.addRoutes(mux)

	return server, nil
}

func (s *Server) Srv() *http.Server {
	return s.srv
}

// Handler exposes the routes without a listener, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
