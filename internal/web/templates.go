package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/tic-tac-gomoku/internal/app"
    "github.com/jaminalder/tic-tac-gomoku/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

// localView is one local board as drawn inside an outer cell.
type localView struct {
    Row, Col int
    Stone    string
    Target   bool
    Active   bool
    Finished bool
    Cells    [domain.LocalSize][domain.LocalSize]string
}

// boardView is everything the board fragment needs.
type boardView struct {
    ID         string
    Error      string
    Status     string
    Result     string
    Finished   bool
    FreeChoice bool
    Size       int
    Rows       [][]localView
}

func newBoardView(gs app.GameState, errMsg string) boardView {
    snap := gs.Snapshot
    v := boardView{
        ID:         gs.ID,
        Error:      errMsg,
        Status:     snap.Status,
        Result:     snap.Result,
        Finished:   snap.Finished,
        FreeChoice: snap.FreeChoice,
        Size:       snap.OuterSize,
        Rows:       make([][]localView, snap.OuterSize),
    }
    for r := 0; r < snap.OuterSize; r++ {
        v.Rows[r] = make([]localView, snap.OuterSize)
        for c := 0; c < snap.OuterSize; c++ {
            outer := domain.C(r, c)
            ls, _ := snap.Local(outer)
            lv := localView{
                Row:      r,
                Col:      c,
                Stone:    snap.Stone(outer).Symbol(),
                Target:   snap.IsTarget(outer),
                Active:   snap.Active != nil && *snap.Active == outer,
                Finished: ls.Finished,
            }
            for i, side := range ls.Cells {
                lv.Cells[i/domain.LocalSize][i%domain.LocalSize] = side.Symbol()
            }
            v.Rows[r][c] = lv
        }
    }
    return v
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.outer{display:grid;gap:2px}.row{display:contents}.cell{border:1px solid #999;display:grid;grid-template-columns:repeat(3,1fr)}
.cell.target{border-color:#0a0}.cell.active{border:2px solid #0a0}.stone{font-size:1.5em;text-align:center}
.cell form{margin:0}.cell button{width:1.4em;height:1.4em;padding:0}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Gomoku</h1><form action="/game" method="post"><button>Create</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{if .Finished}}{{.Result}}{{else}}{{.Status}}{{end}}</div>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button type="submit">New game</button></form>
  {{$id := .ID}}
  <div class="outer" style="grid-template-columns:repeat({{.Size}},auto)">
  {{range .Rows}}
  <div class="row">
    {{range $cell := .}}
    <div class="cell{{if $cell.Target}} target{{end}}{{if $cell.Active}} active{{end}}">
      {{if $cell.Stone}}
      <span class="stone">{{$cell.Stone}}</span>
      {{else}}
      {{range $lr, $line := $cell.Cells}}
      {{range $lc, $mark := $line}}
      {{if and $cell.Target (not $mark)}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="or" value="{{$cell.Row}}">
        <input type="hidden" name="oc" value="{{$cell.Col}}">
        <input type="hidden" name="lr" value="{{$lr}}">
        <input type="hidden" name="lc" value="{{$lc}}">
        <button type="submit"></button>
      </form>
      {{else}}
      <span>{{$mark}}</span>
      {{end}}
      {{end}}
      {{end}}
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}
  </div>
</div>
`

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}
