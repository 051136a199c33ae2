package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/auctiondesk/internal/channel"
	"github.com/abrezinsky/auctiondesk/internal/display"
	"github.com/abrezinsky/auctiondesk/internal/handlers"
	"github.com/abrezinsky/auctiondesk/internal/logger"
	"github.com/abrezinsky/auctiondesk/internal/models"
	"github.com/abrezinsky/auctiondesk/internal/repository"
	"github.com/abrezinsky/auctiondesk/internal/roster"
	"github.com/abrezinsky/auctiondesk/internal/services"
	"github.com/abrezinsky/auctiondesk/internal/snapshot"
	"github.com/abrezinsky/auctiondesk/internal/testutil"
	"github.com/abrezinsky/auctiondesk/internal/websocket"
	"github.com/abrezinsky/auctiondesk/pkg/sheets"
)

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":     &fstest.MapFile{Data: []byte(`{{define "layout"}}<html><head><title>{{.Title}}</title></head><body data-socket="{{.SocketPath}}">{{template "content" .}}</body></html>{{end}}`)},
		"index.html":      &fstest.MapFile{Data: []byte(`{{define "content"}}<h1>Index</h1>{{end}}`)},
		"controller.html": &fstest.MapFile{Data: []byte(`{{define "content"}}<h1>Controller</h1>{{end}}`)},
		"display.html":    &fstest.MapFile{Data: []byte(`{{define "content"}}<h1>{{.DisplayTitle}}</h1>{{end}}`)},
	}
}

type testEnv struct {
	server   *httptest.Server
	auction  *services.AuctionService
	settings *services.SettingsService
	observer *display.Observer
	source   *sheets.MockSource
	hub      *websocket.Hub
	repo     *repository.Repository
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	repo := testutil.NewTestRepository(t)
	source := sheets.NewMockSource()

	store := snapshot.NewStore(repo, testutil.NewFakeClock(), log, models.DefaultRosterCap)
	hub := websocket.New(log, func(ctx context.Context) (*models.AuctionState, bool, error) {
		snap, ok, err := store.Peek(ctx)
		if !ok || err != nil {
			return nil, ok, err
		}
		return snap.State, true, nil
	})
	hub.Start()
	t.Cleanup(hub.Stop)

	syncChannel := channel.New(store, hub, log)
	settings := services.NewSettingsService(log, repo, services.SettingsDefaults{BidIncrement: 100, DisplayTitle: display.DefaultTitle})
	rosterStore := roster.NewStore(source, models.DefaultRosterCap, log)

	auctionSvc, err := services.NewAuctionService(log, rosterStore, syncChannel, settings, nil, nil)
	if err != nil {
		t.Fatalf("NewAuctionService: %v", err)
	}
	if err := auctionSvc.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	observer := display.New(syncChannel, log, func() string {
		title, _ := settings.DisplayTitle(context.Background())
		return title
	})
	if err := observer.Start(context.Background()); err != nil {
		t.Fatalf("observer Start: %v", err)
	}
	t.Cleanup(observer.Stop)

	h, err := handlers.New(handlers.Deps{
		Auction:  auctionSvc,
		Settings: settings,
		Export:   services.NewExportService(log, auctionSvc),
		QR:       services.NewQRService(log, settings, ""),
		Snapshot: syncChannel,
		Display:  observer,
		Hub:      hub,
		Log:      log,
	}, createTestTemplatesFS(), handlers.NewStaticServer(fstest.MapFS{
		"css/auction.css": &fstest.MapFile{Data: []byte("body{}")},
	}))
	if err != nil {
		t.Fatalf("handlers.New: %v", err)
	}

	server := httptest.NewServer(h.Router())
	t.Cleanup(server.Close)

	return &testEnv{server: server, auction: auctionSvc, settings: settings, observer: observer, source: source, hub: hub, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func TestNew_MissingTemplate(t *testing.T) {
	templatesFS := createTestTemplatesFS()
	delete(templatesFS, "display.html")

	_, err := handlers.New(handlers.Deps{Log: logger.Discard()}, templatesFS, handlers.NewStaticServer(fstest.MapFS{}))
	if err == nil {
		t.Fatal("expected error for missing display template")
	}
	if !strings.Contains(err.Error(), "display template") {
		t.Errorf("expected error to name the display template, got %v", err)
	}
}

func TestPages(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"<h1>Index</h1>", `data-socket="/ws/auction_sync_channel"`}},
		{"/controller", []string{"<title>Auction Controller</title>", "<h1>Controller</h1>"}},
		{"/display", []string{"<title>Auction Dashboard</title>", "<h1>Auction Dashboard</h1>"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, tt.path, "")
			expectStatus(t, resp, http.StatusOK)

			var buf bytes.Buffer
			buf.ReadFrom(resp.Body)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %q in body %q", want, buf.String())
				}
			}
		})
	}
}

func TestDisplayPage_UsesSavedTitle(t *testing.T) {
	env := setupTestEnv(t)
	if err := env.settings.SetDisplayTitle(context.Background(), "Premier League Auction"); err != nil {
		t.Fatalf("SetDisplayTitle: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/display", "")
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.Contains(buf.String(), "<h1>Premier League Auction</h1>") {
		t.Errorf("expected saved title in %q", buf.String())
	}
}

func TestStaticFiles(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/static/css/auction.css", "")
	expectStatus(t, resp, http.StatusOK)

	missing := env.do(t, http.MethodGet, "/static/css/missing.css", "")
	expectStatus(t, missing, http.StatusNotFound)
}

func TestImport(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/import", "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[handlers.ImportResponse](t, resp)
	if !got.Success || len(got.Players) != 3 || len(got.Teams) != 2 {
		t.Errorf("unexpected import response %+v", got)
	}
}

func TestImport_FailureReportedInBody(t *testing.T) {
	env := setupTestEnv(t)
	env.source.SetReadError(roster.TeamsTable, context.DeadlineExceeded)

	resp := env.do(t, http.MethodGet, "/api/import", "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[handlers.ImportResponse](t, resp)
	if got.Success || got.Error == "" {
		t.Errorf("expected failure with message, got %+v", got)
	}
}

func TestGetState_AfterInit(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/state", "")
	expectStatus(t, resp, http.StatusOK)
	state := decode[models.AuctionState](t, resp)

	if state.CurrentPlayer == nil || state.CurrentPlayer.SerialNumber != 1 {
		t.Fatalf("expected S1 under the hammer, got %+v", state.CurrentPlayer)
	}
	if state.CurrentBid != 1000 || state.Phase != models.PhaseBidding {
		t.Errorf("unexpected lot: bid %d phase %s", state.CurrentBid, state.Phase)
	}
}

func TestGetQueue(t *testing.T) {
	env := setupTestEnv(t)

	got := decode[handlers.QueueResponse](t, env.do(t, http.MethodGet, "/api/queue", ""))
	if got.Count != 3 || len(got.Players) != 3 {
		t.Errorf("expected 3 queued players, got %+v", got)
	}
}

func TestControllerFlow_AwardThenReport(t *testing.T) {
	env := setupTestEnv(t)

	steps := []struct {
		path string
		body string
	}{
		{"/api/controller/select", `{"serial":2}`},
		{"/api/controller/raise", `{"increment":500}`},
		{"/api/controller/raise", ""},
		{"/api/controller/finalize", ""},
		{"/api/controller/award", `{"team_index":0}`},
	}
	var state models.AuctionState
	for _, step := range steps {
		resp := env.do(t, http.MethodPost, step.path, step.body)
		expectStatus(t, resp, http.StatusOK)
		state = decode[models.AuctionState](t, resp)
	}

	t1 := state.Teams[0]
	if t1.Balance != 5000-2600 || t1.PlayersTaken != 1 {
		t.Errorf("expected T1 to pay 2600, got balance %d taken %d", t1.Balance, t1.PlayersTaken)
	}
	if len(state.RemainingPlayers) != 2 {
		t.Errorf("expected 2 remaining players, got %d", len(state.RemainingPlayers))
	}

	report := decode[services.Report](t, env.do(t, http.MethodGet, "/api/controller/report", ""))
	if len(report.Sold) != 1 || report.Sold[0].Player != "S2" || report.Sold[0].Price != 2600 {
		t.Errorf("unexpected sold rows %+v", report.Sold)
	}
	if len(report.Unsold) != 2 {
		t.Errorf("expected 2 unsold rows, got %d", len(report.Unsold))
	}
}

func TestController_OverrideAndUnsold(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/controller/override", `{"amount":4200}`)
	expectStatus(t, resp, http.StatusOK)
	if state := decode[models.AuctionState](t, resp); state.CurrentBid != 4200 {
		t.Errorf("expected bid 4200, got %d", state.CurrentBid)
	}

	resp = env.do(t, http.MethodPost, "/api/controller/unsold", "")
	expectStatus(t, resp, http.StatusOK)
	state := decode[models.AuctionState](t, resp)
	if len(state.RemainingPlayers) != 3 {
		t.Errorf("unsold player must stay in the queue, got %d remaining", len(state.RemainingPlayers))
	}
	for _, p := range state.RemainingPlayers {
		if p.SerialNumber == 1 && p.UnsoldCount != 1 {
			t.Errorf("expected unsold count 1 for S1, got %d", p.UnsoldCount)
		}
	}
}

func TestController_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"select missing serial", nil, "/api/controller/select", `{}`, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"select unknown serial", nil, "/api/controller/select", `{"serial":99}`, http.StatusNotFound, handlers.ErrCodeNotFound},
		{"select bad json", nil, "/api/controller/select", `{serial`, http.StatusBadRequest, handlers.ErrCodeBadRequest},
		{"select empty body", nil, "/api/controller/select", "", http.StatusBadRequest, handlers.ErrCodeBadRequest},
		{"override missing amount", nil, "/api/controller/override", `{}`, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"override negative", nil, "/api/controller/override", `{"amount":-1}`, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"raise zero", nil, "/api/controller/raise", `{"increment":0}`, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"award before finalize", nil, "/api/controller/award", `{"team_index":0}`, http.StatusConflict, handlers.ErrCodeBidNotFinalized},
		{"award missing team", []string{"/api/controller/finalize"}, "/api/controller/award", `{}`, http.StatusBadRequest, handlers.ErrCodeValidation},
		{"award unknown team", []string{"/api/controller/finalize"}, "/api/controller/award", `{"team_index":7}`, http.StatusNotFound, handlers.ErrCodeNotFound},
		{"raise after finalize", []string{"/api/controller/finalize"}, "/api/controller/raise", `{"increment":100}`, http.StatusConflict, handlers.ErrCodeBidFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			for _, path := range tt.setup {
				expectStatus(t, env.do(t, http.MethodPost, path, ""), http.StatusOK)
			}
			before := env.auction.State()

			resp := env.do(t, http.MethodPost, tt.path, tt.body)
			expectStatus(t, resp, tt.wantCode)
			body := decode[errorBody](t, resp)
			if body.Code != tt.wantErr {
				t.Errorf("expected code %s, got %s (%s)", tt.wantErr, body.Code, body.Error)
			}

			after := env.auction.State()
			if after.CurrentBid != before.CurrentBid || after.Phase != before.Phase {
				t.Error("rejected request changed the state")
			}
		})
	}
}

func TestController_RaiseOverflowRejected(t *testing.T) {
	env := setupTestEnv(t)
	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/override", `{"amount":9223372036854775807}`), http.StatusOK)

	resp := env.do(t, http.MethodPost, "/api/controller/raise", `{"increment":1}`)
	expectStatus(t, resp, http.StatusBadRequest)
	if body := decode[errorBody](t, resp); body.Code != handlers.ErrCodeValidation {
		t.Errorf("expected code %s, got %s (%s)", handlers.ErrCodeValidation, body.Code, body.Error)
	}

	state := env.auction.State()
	if state.CurrentBid != 9223372036854775807 {
		t.Errorf("expected bid to stay at the maximum, got %d", state.CurrentBid)
	}
	for _, team := range state.Teams {
		if team.Balance < 0 {
			t.Errorf("team %s went negative: %d", team.Name, team.Balance)
		}
	}
}

func TestController_InsufficientFunds(t *testing.T) {
	env := setupTestEnv(t)

	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/override", `{"amount":4000}`), http.StatusOK)
	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/finalize", ""), http.StatusOK)

	resp := env.do(t, http.MethodPost, "/api/controller/award", `{"team_index":1}`)
	expectStatus(t, resp, http.StatusConflict)
	if body := decode[errorBody](t, resp); body.Code != handlers.ErrCodeInsufficientFunds {
		t.Errorf("expected %s, got %+v", handlers.ErrCodeInsufficientFunds, body)
	}
}

func TestController_Reset(t *testing.T) {
	env := setupTestEnv(t)

	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/select", `{"serial":3}`), http.StatusOK)

	resp := env.do(t, http.MethodPost, "/api/controller/reset", "")
	expectStatus(t, resp, http.StatusOK)
	state := decode[models.AuctionState](t, resp)
	if state.CurrentPlayer == nil || state.CurrentPlayer.SerialNumber != 1 {
		t.Errorf("expected a fresh auction starting at S1, got %+v", state.CurrentPlayer)
	}
}

func TestController_ResetImportFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.source.SetReadError(roster.PlayersTable, context.Canceled)

	resp := env.do(t, http.MethodPost, "/api/controller/reset", "")
	expectStatus(t, resp, http.StatusBadGateway)
	if body := decode[errorBody](t, resp); body.Code != handlers.ErrCodeImport {
		t.Errorf("expected %s, got %+v", handlers.ErrCodeImport, body)
	}
	if env.auction.State().CurrentPlayer != nil {
		t.Error("expected idle state after failed re-import")
	}
}

func TestExport(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/controller/export", "")
	expectStatus(t, resp, http.StatusOK)

	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, services.ExportFilename) {
		t.Errorf("expected attachment named %s, got %q", services.ExportFilename, cd)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != services.SoldSheetName || sheets[1] != services.UnsoldSheetName {
		t.Errorf("unexpected sheets %v", sheets)
	}
}

func TestDisplayQR(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/controller/display-qr", "")
	expectStatus(t, resp, http.StatusConflict)
	if body := decode[errorBody](t, resp); body.Code != handlers.ErrCodePrecondition {
		t.Errorf("expected %s without a base URL, got %+v", handlers.ErrCodePrecondition, body)
	}

	expectStatus(t, env.do(t, http.MethodPut, "/api/settings", `{"base_url":"http://192.168.1.20:8081"}`), http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/controller/display-qr", "")
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestSettings(t *testing.T) {
	env := setupTestEnv(t)

	got := decode[services.Settings](t, env.do(t, http.MethodGet, "/api/settings", ""))
	if got.BidIncrement != 100 || got.DisplayTitle != display.DefaultTitle || got.BaseURL != "" {
		t.Errorf("unexpected defaults %+v", got)
	}

	resp := env.do(t, http.MethodPut, "/api/settings", `{"bid_increment":250,"display_title":"Finals"}`)
	expectStatus(t, resp, http.StatusOK)
	got = decode[services.Settings](t, resp)
	if got.BidIncrement != 250 || got.DisplayTitle != "Finals" {
		t.Errorf("settings not applied: %+v", got)
	}

	// the raise endpoint picks up the new default
	state := decode[models.AuctionState](t, env.do(t, http.MethodPost, "/api/controller/raise", ""))
	if state.CurrentBid != 1250 {
		t.Errorf("expected bid 1250 after default raise, got %d", state.CurrentBid)
	}
}

func TestSettings_Invalid(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero increment", `{"bid_increment":0}`},
		{"blank title", `{"display_title":"  "}`},
		{"bad base url", `{"base_url":"ftp://example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPut, "/api/settings", tt.body)
			expectStatus(t, resp, http.StatusBadRequest)
		})
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/snapshot", "")
	expectStatus(t, resp, http.StatusOK)
	got := decode[handlers.SnapshotResponse](t, resp)
	if got.State == nil || got.State.CurrentBid != 1000 {
		t.Fatalf("expected the persisted initial state, got %+v", got.State)
	}
}

func TestSnapshotEndpoint_EmptyAfterFailedReset(t *testing.T) {
	env := setupTestEnv(t)
	env.source.SetReadError(roster.PlayersTable, context.Canceled)
	env.do(t, http.MethodPost, "/api/controller/reset", "")

	resp := env.do(t, http.MethodGet, "/api/snapshot", "")
	expectStatus(t, resp, http.StatusNoContent)
}

func TestSnapshotEndpoint_LeavesUnusableSnapshot(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	corrupt := []byte(`{"remainingPlayers": [`)
	if err := env.repo.SaveSnapshot(ctx, snapshot.Key, corrupt, time.Now()); err != nil {
		t.Fatalf("seeding snapshot: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/snapshot", "")
	expectStatus(t, resp, http.StatusNoContent)

	// a late websocket joiner reads the slot too
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + handlers.SocketPath
	ws, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()
	testutil.Eventually(t, 2*time.Second, func() bool { return env.hub.ClientCount() == 1 }, "client registration")

	rec, err := env.repo.GetSnapshot(ctx, snapshot.Key)
	if err != nil {
		t.Fatalf("expected observers to leave the slot in place, got %v", err)
	}
	if !bytes.Equal(rec.Data, corrupt) {
		t.Errorf("slot changed: %s", rec.Data)
	}
}

func TestDisplayView_FollowsController(t *testing.T) {
	env := setupTestEnv(t)

	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/override", `{"amount":3100}`), http.StatusOK)

	testutil.Eventually(t, 2*time.Second, func() bool {
		s := env.observer.State()
		return s != nil && s.CurrentBid == 3100
	}, "observer update")

	view := decode[display.View](t, env.do(t, http.MethodGet, "/api/display/view", ""))
	if view.Idle || view.CurrentBid != 3100 || len(view.Teams) != 2 {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestSocket_LateJoinerGetsSnapshot(t *testing.T) {
	env := setupTestEnv(t)
	expectStatus(t, env.do(t, http.MethodPost, "/api/controller/select", `{"serial":3}`), http.StatusOK)

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + handlers.SocketPath
	ws, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := models.ParseSyncMessage(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.State == nil || msg.State.CurrentPlayer == nil || msg.State.CurrentPlayer.SerialNumber != 3 {
		t.Errorf("expected snapshot with S3 under the hammer, got %+v", msg)
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	expectStatus(t, env.do(t, http.MethodGet, "/healthz", ""), http.StatusOK)
	// readiness is not flagged until the app finishes startup
	expectStatus(t, env.do(t, http.MethodGet, "/readyz", ""), http.StatusServiceUnavailable)
}

func TestCORS(t *testing.T) {
	h := handlers.NewForTesting(handlers.Deps{AllowedOrigins: []string{"http://stage.local"}})
	r := h.Router()

	req := httptest.NewRequest(http.MethodOptions, "/api/settings", nil)
	req.Header.Set("Origin", "http://stage.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://stage.local" {
		t.Errorf("expected allowed origin header, got %q", got)
	}
}
