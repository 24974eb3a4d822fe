package web

import (
    "context"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool { return true },
}

// socket pushes a JSON snapshot on connect and after changes to the game.
// Bursts of moves collapse into one write of the newest state.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Debugw("websocket upgrade", "game", id, "error", err)
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    ch, unsub, err := h.svc.SubscribeLatest(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    // Reads only detect the peer going away.
    go func() {
        defer cancel()
        for {
            if _, _, err := conn.NextReader(); err != nil {
                return
            }
        }
    }()

    send := func() bool {
        gs, ok := h.svc.Get(id)
        if !ok {
            return false
        }
        _ = conn.SetWriteDeadline(time.Now().Add(writeWait))
        if err := conn.WriteJSON(gs.Snapshot); err != nil {
            h.log.Debugw("websocket write", "game", id, "error", err)
            return false
        }
        return true
    }
    if !send() {
        return
    }
    for {
        select {
        case <-ctx.Done():
            return
        case _, ok := <-ch:
            if !ok || !send() {
                return
            }
        }
    }
}
