package web

import (
    "bytes"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/jaminalder/tic-tac-gomoku/internal/app"
    "github.com/jaminalder/tic-tac-gomoku/internal/domain"
)

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       *zap.SugaredLogger
    heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

// errorMessage maps service and rules errors to text shown above the board.
func errorMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    case errors.Is(err, domain.ErrNotLegalTarget):
        return "You must play in the highlighted board"
    case errors.Is(err, domain.ErrLocalRejected):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrNotFreeChoice):
        return "Board is already chosen"
    default:
        return "Invalid move"
    }
}

// formCoord reads a coordinate from two form fields. Unparsable values give
// an off-board coordinate, which the rules reject like any other illegal cell.
func formCoord(r *http.Request, rowKey, colKey string) domain.Coord {
    row, err := strconv.Atoi(r.Form.Get(rowKey))
    if err != nil {
        return domain.C(-1, -1)
    }
    col, err := strconv.Atoi(r.Form.Get(colKey))
    if err != nil {
        return domain.C(-1, -1)
    }
    return domain.C(row, col)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        h.log.Errorw("create game", "error", err)
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardView(*gs, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, ""))
}

// writeResult renders the board after a mutation, falling back to the
// current state with an error line if the mutation failed.
func (h *handlers) writeResult(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    var errMsg string
    if err != nil {
        errMsg = errorMessage(err)
        if g, ok := h.svc.Get(id); ok {
            gs = g
        }
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    outer := formCoord(r, "or", "oc")
    local := formCoord(r, "lr", "lc")
    gs, err := h.svc.Play(id, pid, outer, local)
    h.writeResult(w, r, id, gs, err)
}

func (h *handlers) selectCell(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    gs, err := h.svc.Select(id, pid, formCoord(r, "or", "oc"))
    h.writeResult(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Reset(id, pid)
    h.writeResult(w, r, id, gs, err)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSON(w, http.StatusNotFound, ErrorResponse{ErrorDescription: app.ErrNotFound.Error()})
        return
    }
    writeJSON(w, http.StatusOK, gs.Snapshot)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            // SSE data lines cannot contain raw newlines
            _, _ = fmt.Fprintf(w, "event: board\n")
            for _, line := range bytes.Split(b, []byte("\n")) {
                _, _ = fmt.Fprintf(w, "data: %s\n", line)
            }
            _, _ = io.WriteString(w, "\n")
            flusher.Flush()
        }
    }
}
