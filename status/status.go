package status

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

const httpTimeoutsMs = 3000

// FrameState is the last thing shown on the register.
type FrameState struct {
	Value     uint8     `json:"value"`
	Bits      string    `json:"bits"`
	Frames    uint64    `json:"frames"`
	LatchedAt time.Time `json:"latched_at"`
}

// Server exposes the display state over http. It is a FrameListener for
// the counter loop.
type Server struct {
	HttpAddr string
	Token    string

	lock     sync.RWMutex
	state    FrameState
	server   *http.Server
	listener net.Listener

	serverErr chan error
}

func (srv *Server) FrameLatched(value uint8) {
	srv.lock.Lock()
	defer srv.lock.Unlock()

	srv.state.Value = value
	srv.state.Bits = fmt.Sprintf("%08b", value)
	srv.state.Frames++
	srv.state.LatchedAt = time.Now()
}

func (srv *Server) State() FrameState {
	srv.lock.RLock()
	defer srv.lock.RUnlock()

	return srv.state
}

func (srv *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/health", srv.handleHealth)
	router.GET("/state", srv.handleState)
	router.GET("/state/token/:token", srv.handleState)

	return router
}

// Start binds HttpAddr and serves in the background. A bind failure is
// returned right away. Serve errors other than a Close end up on Err, which
// is closed once the server stops.
func (srv *Server) Start() error {
	listener, err := net.Listen("tcp", srv.HttpAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", srv.HttpAddr)
	}

	httpTimeout := httpTimeoutsMs * time.Millisecond

	srv.listener = listener
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
		IdleTimeout:       2 * httpTimeout,
	}

	srv.serverErr = make(chan error, 1)
	go func() {
		defer close(srv.serverErr)

		err := srv.server.Serve(listener)
		if err != http.ErrServerClosed {
			srv.serverErr <- err
		}
	}()

	return nil
}

// Addr is the bound address, useful with a ":0" HttpAddr.
func (srv *Server) Addr() string {
	if srv.listener == nil {
		return ""
	}
	return srv.listener.Addr().String()
}

func (srv *Server) Err() <-chan error {
	return srv.serverErr
}

func (srv *Server) Close() error {
	if srv.server == nil {
		return nil
	}
	return srv.server.Close()
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (srv *Server) handleState(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if len(srv.Token) > 0 && !strings.EqualFold(p.ByName("token"), srv.Token) {
		http.Error(w, "token mismatch", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(srv.State())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
