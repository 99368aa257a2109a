package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"motion-logger/models"
	"motion-logger/services/window"
	"motion-logger/utils"
)

// SessionControl is the slice of the session controller the live view
// needs for its start/stop/export endpoints.
type SessionControl interface {
	Start() (string, error)
	Stop()
	Active() bool
	Paths() []string
}

// LiveView serves the chart consumer:
//
//	GET  /api/window/{stream}   normalized window for one stream
//	POST /api/session/start     begin a logging session
//	POST /api/session/stop      end the logging session
//	GET  /api/session/export    file:// URIs of the last session's logs
//	GET  /ws                    websocket push of both normalized windows
type LiveView struct {
	windows  *window.Store
	session  SessionControl
	push     time.Duration
	upgrader websocket.Upgrader
	srv      *http.Server
}

func NewLiveView(cfg utils.WebConfig, windows *window.Store, session SessionControl) *LiveView {
	v := &LiveView{
		windows: windows,
		session: session,
		push:    time.Duration(cfg.PushIntervalMs) * time.Millisecond,
		upgrader: websocket.Upgrader{
			// local display client only
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	v.srv = &http.Server{
		Addr:    cfg.Addr,
		Handler: v.Handler(),
	}
	return v
}

// Handler returns the route table. Split out from Start so tests can drive
// the endpoints through httptest.
func (v *LiveView) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/window/", v.handleWindow)
	mux.HandleFunc("/api/session/start", v.handleStart)
	mux.HandleFunc("/api/session/stop", v.handleStop)
	mux.HandleFunc("/api/session/export", v.handleExport)
	mux.HandleFunc("/ws", v.handleWS)
	return mux
}

// Start begins serving in the background.
func (v *LiveView) Start() {
	go func() {
		utils.L().Info("live view listening on %s", v.srv.Addr)
		if err := v.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.L().Error("live view server: %v", err)
		}
	}()
}

// Shutdown stops the HTTP server, waiting for in-flight requests.
func (v *LiveView) Shutdown(ctx context.Context) error {
	return v.srv.Shutdown(ctx)
}

func (v *LiveView) handleWindow(w http.ResponseWriter, r *http.Request) {
	stream := models.Stream(strings.TrimPrefix(r.URL.Path, "/api/window/"))
	if !stream.Valid() {
		http.Error(w, "unknown stream", http.StatusNotFound)
		return
	}
	writeJSON(w, v.windows.Normalized(stream))
}

func (v *LiveView) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token, err := v.session.Start()
	if err != nil {
		if v.session.Active() {
			http.Error(w, err.Error(), http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, map[string]string{"session": token})
}

func (v *LiveView) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	v.session.Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (v *LiveView) handleExport(w http.ResponseWriter, r *http.Request) {
	paths := v.session.Paths()
	if len(paths) == 0 {
		http.Error(w, "no session to export", http.StatusNotFound)
		return
	}
	uris, err := ExportURIs(paths)
	if err != nil {
		utils.L().Error("live view: export: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string][]string{"files": uris})
}

// wsFrame is one websocket push: both streams' normalized windows.
type wsFrame struct {
	Accelerometer window.AxisBatch `json:"accelerometer"`
	Gyroscope     window.AxisBatch `json:"gyroscope"`
}

func (v *LiveView) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := v.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.L().Warn("live view: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(v.push)
	defer ticker.Stop()

	for range ticker.C {
		frame := wsFrame{
			Accelerometer: v.windows.Normalized(models.StreamAccelerometer),
			Gyroscope:     v.windows.Normalized(models.StreamGyroscope),
		}
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.L().Error("live view: json encode: %v", err)
	}
}
