package web

import (
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"

    "github.com/jaminalder/tic-tac-gomoku/internal/app"
    "github.com/jaminalder/tic-tac-gomoku/internal/domain"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService(app.WithRules(domain.Config{OuterSize: 3, WinLength: 3}))
    h := NewServer(s)
    return s, h
}

func postForm(t *testing.T, h http.Handler, path, player string, form url.Values) *httptest.ResponseRecorder {
    t.Helper()
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    req.AddCookie(&http.Cookie{Name: "player_id", Value: player})
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func seated(t *testing.T, svc *app.Service) *app.GameState {
    t.Helper()
    gs, _ := svc.CreateGame()
    svc.Join(gs.ID, "p1")
    svc.Join(gs.ID, "p2")
    return gs
}

func move(or, oc, lr, lc string) url.Values {
    return url.Values{"or": {or}, "oc": {oc}, "lr": {lr}, "lc": {lc}}
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("POST", "/game", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
}

func TestGamePageSetsCookieAndAutoClaims(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame()

    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var playerID string
    for _, c := range rr.Result().Cookies() {
        if c.Name == "player_id" {
            playerID = c.Value
            break
        }
    }
    if playerID == "" {
        t.Fatalf("expected player_id cookie to be set")
    }
    latest, ok := svc.Get(gs.ID)
    if !ok || (latest.First != playerID && latest.Second != playerID) {
        t.Fatalf("expected auto-claim; have First=%q Second=%q pid=%q", latest.First, latest.Second, playerID)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
        t.Fatalf("expected SSE wiring in page; got body: %q", body)
    }
    // 9 boards, all playable, 9 cells each
    if n := strings.Count(body, `name="lr"`); n != 81 {
        t.Fatalf("expected 81 playable cells on a fresh 3x3 board, got %d", n)
    }
}

func TestUnknownGamePage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/game/nope", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestJoinEndpointReturnsBoardFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame()
    svc.Join(gs.ID, "p1")

    rr := postForm(t, h, "/game/"+gs.ID+"/join", "p2", url.Values{})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Second != "p2" {
        t.Fatalf("expected seat for p2, got First=%q Second=%q", latest.First, latest.Second)
    }
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)

    rr := postForm(t, h, "/game/"+gs.ID+"/play", "p1", move("1", "1", "1", "1"))
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", body)
    }
    if !strings.Contains(body, "active: (1,1)") {
        t.Fatalf("expected status line with forced cell, got %q", body)
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Snapshot.Moves != 1 {
        t.Fatalf("expected move applied, moves=%d", latest.Snapshot.Moves)
    }
    // only the forced board offers moves now: 8 free cells
    if n := strings.Count(body, `name="lr"`); n != 8 {
        t.Fatalf("expected 8 playable cells, got %d", n)
    }
}

func TestPlayEndpointReportsErrors(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)

    cases := []struct {
        player string
        form   url.Values
        want   string
    }{
        {"p2", move("1", "1", "1", "1"), "Not your turn"},
        {"p3", move("1", "1", "1", "1"), "You are a spectator"},
        {"p1", move("x", "1", "1", "1"), "You must play in the highlighted board"},
        {"p1", move("1", "1", "3", "0"), "Cell is occupied"},
    }
    for _, tc := range cases {
        rr := postForm(t, h, "/game/"+gs.ID+"/play", tc.player, tc.form)
        if rr.Code != http.StatusOK {
            t.Fatalf("expected 200, got %d", rr.Code)
        }
        if !strings.Contains(rr.Body.String(), tc.want) {
            t.Fatalf("expected %q in body for %s %v", tc.want, tc.player, tc.form)
        }
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Snapshot.Moves != 0 {
        t.Fatalf("rejected moves changed the game")
    }
}

func TestSelectAndResetEndpoints(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)

    rr := postForm(t, h, "/game/"+gs.ID+"/select", "p1", url.Values{"or": {"2"}, "oc": {"0"}})
    if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "active: (2,0)") {
        t.Fatalf("expected (2,0) selected, got %d %q", rr.Code, rr.Body.String())
    }
    rr = postForm(t, h, "/game/"+gs.ID+"/select", "p1", url.Values{"or": {"0"}, "oc": {"0"}})
    if !strings.Contains(rr.Body.String(), "Board is already chosen") {
        t.Fatalf("expected second select to fail, got %q", rr.Body.String())
    }
    postForm(t, h, "/game/"+gs.ID+"/play", "p1", move("2", "0", "0", "0"))

    rr = postForm(t, h, "/game/"+gs.ID+"/reset", "p2", url.Values{})
    if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "active: free choice") {
        t.Fatalf("expected fresh game after reset, got %q", rr.Body.String())
    }
    latest, _ := svc.Get(gs.ID)
    if latest.Snapshot.Moves != 0 {
        t.Fatalf("expected reset game, moves=%d", latest.Snapshot.Moves)
    }
}

func TestStateEndpointReturnsSnapshot(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)
    postForm(t, h, "/game/"+gs.ID+"/play", "p1", move("0", "0", "2", "2"))

    req := httptest.NewRequest("GET", "/game/"+gs.ID+"/state", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    var resp struct {
        Status int
        Body   domain.Snapshot
    }
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Status != http.StatusOK || resp.Body.Moves != 1 || resp.Body.Current != domain.Second {
        t.Fatalf("unexpected snapshot: %+v", resp)
    }
    if resp.Body.Active == nil || *resp.Body.Active != domain.C(1, 1) {
        t.Fatalf("expected (1,1) forced, got %v", resp.Body.Active)
    }

    req = httptest.NewRequest("GET", "/game/nope/state", nil)
    rr = httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "game not found") {
        t.Fatalf("expected 404 envelope, got %d %q", rr.Code, rr.Body.String())
    }
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
    _, h := newTestServer(t)
    reqCreate := httptest.NewRequest("POST", "/game", nil)
    rrCreate := httptest.NewRecorder()
    h.ServeHTTP(rrCreate, reqCreate)
    loc := rrCreate.Result().Header.Get("Location")
    if loc == "" {
        t.Fatalf("missing redirect location")
    }
    req := httptest.NewRequest("GET", loc+"/events", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    ct := rr.Result().Header.Get("Content-Type")
    if !strings.HasPrefix(ct, "text/event-stream") {
        io.Copy(io.Discard, rr.Result().Body)
        t.Fatalf("expected text/event-stream, got %q", ct)
    }
}

func TestWebSocketPushesSnapshots(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)
    srv := httptest.NewServer(h)
    defer srv.Close()

    wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer conn.Close()
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

    var snap domain.Snapshot
    if err := conn.ReadJSON(&snap); err != nil {
        t.Fatalf("read initial snapshot: %v", err)
    }
    if snap.Moves != 0 || !snap.FreeChoice {
        t.Fatalf("unexpected initial snapshot: %+v", snap.Status)
    }

    if _, err := svc.Play(gs.ID, "p1", domain.C(2, 2), domain.C(0, 0)); err != nil {
        t.Fatalf("play: %v", err)
    }
    if err := conn.ReadJSON(&snap); err != nil {
        t.Fatalf("read update: %v", err)
    }
    if snap.Moves != 1 || snap.Active == nil || *snap.Active != domain.C(1, 1) {
        t.Fatalf("unexpected update: %+v", snap.Status)
    }
}

func TestWebSocketUnknownGame(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/game/nope/ws", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rr.Code)
    }
}

func TestEventsUnknownGame(t *testing.T) {
    svc, h := newTestServer(t)
    for _, accept := range []string{"", "text/event-stream"} {
        req := httptest.NewRequest("GET", "/game/anything-at-all/events", nil)
        if accept != "" {
            req.Header.Set("Accept", accept)
        }
        rr := httptest.NewRecorder()
        h.ServeHTTP(rr, req)
        if rr.Code != http.StatusNotFound {
            t.Fatalf("accept %q: expected 404, got %d", accept, rr.Code)
        }
    }
    if _, ok := svc.Get("anything-at-all"); ok {
        t.Fatalf("events request must not create a game")
    }
}

func TestWebSocketSurvivesMoveBurst(t *testing.T) {
    svc, h := newTestServer(t)
    gs := seated(t, svc)
    srv := httptest.NewServer(h)
    defer srv.Close()

    wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer conn.Close()
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

    var snap domain.Snapshot
    if err := conn.ReadJSON(&snap); err != nil {
        t.Fatalf("read initial snapshot: %v", err)
    }

    plays := []struct {
        player       string
        outer, local domain.Coord
    }{
        {"p1", domain.C(2, 2), domain.C(0, 0)},
        {"p2", domain.C(1, 1), domain.C(0, 0)},
        {"p1", domain.C(0, 0), domain.C(1, 1)},
    }
    for i, p := range plays {
        if _, err := svc.Play(gs.ID, p.player, p.outer, p.local); err != nil {
            t.Fatalf("play %d: %v", i+1, err)
        }
    }
    for snap.Moves < len(plays) {
        if err := conn.ReadJSON(&snap); err != nil {
            t.Fatalf("connection dropped at moves=%d: %v", snap.Moves, err)
        }
    }

    // Still live after the burst.
    if _, err := svc.Play(gs.ID, "p2", domain.C(0, 0), domain.C(2, 2)); err != nil {
        t.Fatalf("play 4: %v", err)
    }
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
    for snap.Moves < 4 {
        if err := conn.ReadJSON(&snap); err != nil {
            t.Fatalf("no update after burst: %v", err)
        }
    }
}
