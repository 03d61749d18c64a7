package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ReloadMessageType represents the type of reload message.
type ReloadMessageType string

const (
	ReloadTypeFull  ReloadMessageType = "reload"
	ReloadTypeError ReloadMessageType = "error"
	ReloadTypeClear ReloadMessageType = "clear"
)

// ReloadPath is where browsers connect for reload notifications.
const ReloadPath = "/_scraps/reload"

// ReloadMessage is sent to browsers via WebSocket. Page names the file
// that triggered the message, when there is one.
type ReloadMessage struct {
	Type  ReloadMessageType `json:"type"`
	Error string            `json:"error,omitempty"`
	Page  string            `json:"page,omitempty"`
}

// ReloadServer keeps the browser connections of a dev session and
// pushes reload and error messages to them.
type ReloadServer struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	lastErr  *ReloadMessage
}

// NewReloadServer creates a new reload server.
func NewReloadServer() *ReloadServer {
	return &ReloadServer{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and holds the connection until the
// browser goes away. A client that connects while a page is broken gets
// the pending error straight away.
func (r *ReloadServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	writeMu := &sync.Mutex{}
	r.mu.Lock()
	r.clients[conn] = writeMu
	pending := r.lastErr
	r.mu.Unlock()

	if pending != nil {
		if data, err := json.Marshal(pending); err == nil {
			writeMu.Lock()
			conn.WriteMessage(websocket.TextMessage, data)
			writeMu.Unlock()
		}
	}

	// Reads only detect the disconnect.
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	r.mu.Lock()
	delete(r.clients, conn)
	r.mu.Unlock()
	conn.Close()
}

// NotifyReload tells every client to reload the page.
func (r *ReloadServer) NotifyReload(page string) {
	r.broadcast(ReloadMessage{Type: ReloadTypeFull, Page: page})
}

// NotifyError shows errMsg in the error overlay of every client. The
// error is replayed to clients that connect before ClearError.
func (r *ReloadServer) NotifyError(page, errMsg string) {
	msg := ReloadMessage{Type: ReloadTypeError, Error: errMsg, Page: page}
	r.mu.Lock()
	r.lastErr = &msg
	r.mu.Unlock()
	r.broadcast(msg)
}

// ClearError removes the error overlay on all clients.
func (r *ReloadServer) ClearError() {
	r.mu.Lock()
	pending := r.lastErr != nil
	r.lastErr = nil
	r.mu.Unlock()
	if pending {
		r.broadcast(ReloadMessage{Type: ReloadTypeClear})
	}
}

// broadcast sends a message to all connected clients.
func (r *ReloadServer) broadcast(msg ReloadMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.RLock()
	clients := make(map[*websocket.Conn]*sync.Mutex, len(r.clients))
	for client, writeMu := range r.clients {
		clients[client] = writeMu
	}
	r.mu.RUnlock()

	// gorilla/websocket allows one concurrent writer per connection.
	for client, writeMu := range clients {
		writeMu.Lock()
		err := client.WriteMessage(websocket.TextMessage, data)
		writeMu.Unlock()
		if err != nil {
			r.mu.Lock()
			delete(r.clients, client)
			r.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (r *ReloadServer) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Close closes all client connections.
func (r *ReloadServer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for client := range r.clients {
		client.Close()
		delete(r.clients, client)
	}
}

// ReloadScript connects a page to the reload endpoint. The server appends
// it to every rendered page while live reload is on.
const ReloadScript = `<script>
(function() {
    var delay = 1000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '` + ReloadPath + `');

        ws.onopen = function() {
            delay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'reload':
                    location.reload();
                    break;
                case 'error':
                    console.error('[scraps]', msg.error);
                    showError(msg.page, msg.error);
                    break;
                case 'clear':
                    clearError();
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                delay = Math.min(delay * 2, 30000);
                connect();
            }, delay);
        };
    }

    function showError(page, error) {
        clearError();
        var overlay = document.createElement('div');
        overlay.id = 'scraps-error-overlay';
        overlay.style.cssText = 'position:fixed;inset:0;background:rgba(0,0,0,0.9);color:#fff;font-family:monospace;padding:20px;overflow:auto;z-index:999999;';
        var title = document.createElement('h2');
        title.style.color = '#ff5555';
        title.textContent = page ? 'Error in ' + page : 'Error';
        var pre = document.createElement('pre');
        pre.style.whiteSpace = 'pre-wrap';
        pre.textContent = error;
        overlay.appendChild(title);
        overlay.appendChild(pre);
        document.body.appendChild(overlay);
    }

    function clearError() {
        var overlay = document.getElementById('scraps-error-overlay');
        if (overlay) {
            overlay.remove();
        }
    }

    connect();
})();
</script>
`
