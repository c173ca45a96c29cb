package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/dispatch"
	"github.com/ethanbaker/wikiai/internal/notify"
	"github.com/ethanbaker/wikiai/internal/transcript"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var longAnswer = strings.Repeat("La photosynthèse transforme la lumière en énergie chimique. ", 3)

// backend is a fake answering service rooted at /api
type backend struct {
	mu        sync.Mutex
	failChat  bool
	chats     []sdk.ChatRequest
	analyses  []sdk.AnalyzeFileRequest
	documents []sdk.GenerateDocumentRequest
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /subjects", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sdk.Subjects{
			"sciences": {Name: "Sciences", Subjects: []string{"Mathématiques", "Physique"}},
		})
	})

	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req sdk.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		b.mu.Lock()
		b.chats = append(b.chats, req)
		fail := b.failChat
		b.mu.Unlock()

		if fail {
			http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
			return
		}

		score := 0.85
		json.NewEncoder(w).Encode(sdk.ChatResponse{ID: "1", Response: longAnswer, TrustScore: &score})
	})

	mux.HandleFunc("POST /upload-file", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)

		json.NewEncoder(w).Encode(sdk.UploadFileResponse{Filename: header.Filename, ExtractedText: string(content), TextLength: len(content)})
	})

	mux.HandleFunc("POST /analyze-file", func(w http.ResponseWriter, r *http.Request) {
		var req sdk.AnalyzeFileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		b.mu.Lock()
		b.analyses = append(b.analyses, req)
		b.mu.Unlock()

		json.NewEncoder(w).Encode(sdk.ChatResponse{ID: "2", Response: "Le fichier parle de mitose.", Exportable: true})
	})

	mux.HandleFunc("POST /generate-document", func(w http.ResponseWriter, r *http.Request) {
		var req sdk.GenerateDocumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		b.mu.Lock()
		b.documents = append(b.documents, req)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/pdf")
		io.WriteString(w, "%PDF-1.4 "+req.Content)
	})

	mux.HandleFunc("GET /chat/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]sdk.ChatResponse{{ID: "1", SessionID: r.PathValue("id"), Response: "ok"}})
	})

	mux.HandleFunc("POST /sources/analyze", func(w http.ResponseWriter, r *http.Request) {
		var urls []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&urls))

		out := sdk.AnalyzeSourcesResponse{}
		for _, u := range urls {
			out.AnalyzedSources = append(out.AnalyzedSources, sdk.AnalyzedSource{URL: u, TrustScore: 0.9, TrustLevel: "Très fiable"})
		}
		json.NewEncoder(w).Encode(out)
	})

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", mux))
	return root
}

func newSession(t *testing.T, b *backend) (*Session, *notify.Recorder, string) {
	t.Helper()

	server := httptest.NewServer(b.handler(t))
	t.Cleanup(server.Close)

	downloads := t.TempDir()
	settings := DefaultSettings()
	settings.BaseURL = server.URL + "/api"
	settings.Timeout = 5 * time.Second
	settings.DownloadDir = downloads

	notes := &notify.Recorder{}
	return New(settings, WithNotifier(notes)), notes, downloads
}

func TestSessionChatAndExport(t *testing.T) {
	b := &backend{}
	s, notes, downloads := newSession(t, b)

	appended := 0
	s.transcript.OnAppend(func(transcript.Message) { appended++ })

	c := s.Start(context.Background())
	assert.Equal(t, []string{"sciences"}, c.Keys())
	assert.Equal(t, category.JeVeux, s.Category())

	res := s.Submit(context.Background(), "Qu'est-ce que la photosynthèse ?")
	require.NoError(t, res.Err)
	assert.Equal(t, 2, s.Transcript().Len())
	assert.Equal(t, 2, appended)
	assert.True(t, res.Assistant.Exportable)

	require.Len(t, b.chats, 1)
	assert.Equal(t, s.ID(), b.chats[0].SessionID)
	assert.Equal(t, "je_veux", b.chats[0].MessageType)

	d, err := s.Export(context.Background(), res.Assistant.ID, "pdf", "Photosynthèse")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(d.Filename, ".pdf"))
	assert.Equal(t, downloads, filepath.Dir(d.Location))

	data, err := os.ReadFile(d.Location)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 "+longAnswer, string(data))
	assert.Equal(t, "Photosynthèse", b.documents[0].Title)

	// Trust notification, then export notification
	kinds := []notify.Kind{}
	for _, n := range notes.All() {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []notify.Kind{notify.KindSuccess, notify.KindSuccess}, kinds)

	_, err = s.Export(context.Background(), res.User.ID, "pdf", "")
	assert.Error(t, err)
	_, err = s.Export(context.Background(), 99, "pdf", "")
	assert.ErrorIs(t, err, ErrUnknownMessage)
	_, err = s.Export(context.Background(), res.Assistant.ID, "exe", "")
	assert.Error(t, err)
	assert.Len(t, b.documents, 1)
}

func TestSessionUploadAndAnalyze(t *testing.T) {
	b := &backend{}
	s, _, _ := newSession(t, b)
	_, err := s.SetCategory("je_recherche")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cours.txt")
	require.NoError(t, os.WriteFile(path, []byte("La mitose est une division cellulaire."), 0644))

	attached, err := s.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "cours.txt", attached.DisplayName)

	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, attached, pending)

	res := s.Submit(context.Background(), "Résume ce document")
	require.NoError(t, res.Err)
	assert.Equal(t, dispatch.RouteFileAnalysis, res.Route)
	require.Len(t, b.analyses, 1)
	assert.Equal(t, "La mitose est une division cellulaire.", b.analyses[0].ExtractedText)
	assert.Equal(t, "je_recherche", b.analyses[0].MessageType)

	_, ok = s.Pending()
	assert.False(t, ok)

	// Without a pending file the next turn is a plain chat
	res = s.Submit(context.Background(), "Et ensuite ?")
	require.NoError(t, res.Err)
	assert.Equal(t, dispatch.RouteChat, res.Route)
}

func TestSessionDiscard(t *testing.T) {
	b := &backend{}
	s, _, _ := newSession(t, b)

	path := filepath.Join(t.TempDir(), "notes.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0644))
	_, err := s.Upload(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, s.Discard())
	assert.False(t, s.Discard())

	res := s.Submit(context.Background(), "question")
	assert.Equal(t, dispatch.RouteChat, res.Route)
	assert.Empty(t, b.analyses)
}

func TestSessionChatFailure(t *testing.T) {
	b := &backend{failChat: true}
	s, notes, _ := newSession(t, b)

	res := s.Submit(context.Background(), "question")
	assert.True(t, res.Failed())
	assert.True(t, sdk.IsTransportError(res.Err))
	assert.Equal(t, dispatch.FallbackText, res.Assistant.Text)
	assert.Equal(t, 2, s.Transcript().Len())
	assert.Equal(t, dispatch.Idle, s.State())

	require.Equal(t, 1, notes.Len())
	assert.Equal(t, notify.KindError, notes.All()[0].Kind)

	// The session stays usable
	b.mu.Lock()
	b.failChat = false
	b.mu.Unlock()
	res = s.Submit(context.Background(), "question")
	assert.NoError(t, res.Err)
	assert.Equal(t, 4, s.Transcript().Len())
}

func TestSessionUnreachableBackend(t *testing.T) {
	settings := DefaultSettings()
	settings.BaseURL = "http://127.0.0.1:1/api"
	settings.Timeout = time.Second
	settings.DownloadDir = t.TempDir()
	s := New(settings, WithNotifier(notify.Nop))

	c := s.Start(context.Background())
	assert.True(t, c.Empty())

	res := s.Submit(context.Background(), "question")
	assert.True(t, res.Failed())
	assert.Equal(t, 2, s.Transcript().Len())
}

func TestSubmitDuringCatalogLoad(t *testing.T) {
	requested := make(chan struct{})
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/subjects", func(w http.ResponseWriter, r *http.Request) {
		close(requested)
		<-release
		json.NewEncoder(w).Encode(sdk.Subjects{"arts_sport": {Name: "Arts et Sport", Subjects: []string{"Musique"}}})
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sdk.ChatResponse{ID: "1", Response: "Bonjour !"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	settings := DefaultSettings()
	settings.BaseURL = server.URL + "/api"
	settings.Timeout = 5 * time.Second
	s := New(settings, WithNotifier(notify.Nop))

	started := make(chan int)
	go func() {
		started <- s.Start(context.Background()).Len()
	}()
	<-requested

	// The catalog is still loading; turns and category switches go through
	_, err := s.SetCategory("activites")
	require.NoError(t, err)
	res := s.Submit(context.Background(), "Bonjour")
	require.NoError(t, res.Err)
	assert.Equal(t, "Bonjour !", res.Assistant.Text)
	assert.True(t, s.Catalog().Empty())

	close(release)
	assert.Equal(t, 1, <-started)
	assert.Equal(t, 1, s.Start(context.Background()).Len())
}

func TestSessionHistoryAndSources(t *testing.T) {
	b := &backend{}
	s, _, _ := newSession(t, b)

	history, err := s.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, s.ID(), history[0].SessionID)

	sources, err := s.AnalyzeSources(context.Background(), []string{"https://www.quebec.ca"})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "https://www.quebec.ca", sources[0].URL)
}

func TestSetCategory(t *testing.T) {
	s := New(DefaultSettings(), WithNotifier(notify.Nop))

	c, err := s.SetCategory("sources_fiables")
	require.NoError(t, err)
	assert.Equal(t, category.SourcesFiables, c)
	assert.Equal(t, category.SourcesFiables, s.Category())

	_, err = s.SetCategory("nope")
	assert.Error(t, err)
	assert.Equal(t, category.SourcesFiables, s.Category())
}

func TestSettingsFromConfig(t *testing.T) {
	s, err := SettingsFromConfig(utils.NewConfig(map[string]string{
		"BACKEND_BASE_URL":          "http://wikiai.local/api",
		"BACKEND_API_KEY":           "key",
		"REQUEST_TIMEOUT":           "15",
		"UPLOAD_MAX_BYTES":          "1024",
		"UPLOAD_ALLOWED_EXTENSIONS": ".PDF, txt",
		"DOWNLOAD_DIR":              "/tmp/exports",
		"DEFAULT_CATEGORY":          "activites",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://wikiai.local/api", s.BaseURL)
	assert.Equal(t, "key", s.APIKey)
	assert.Equal(t, 15*time.Second, s.Timeout)
	assert.Equal(t, int64(1024), s.Upload.MaxBytes)
	assert.Equal(t, []string{"pdf", "txt"}, s.Upload.Extensions)
	assert.Equal(t, "/tmp/exports", s.DownloadDir)
	assert.Equal(t, category.Activites, s.DefaultCategory)

	def, err := SettingsFromConfig(utils.NewConfig(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), def)

	_, err = SettingsFromConfig(utils.NewConfig(map[string]string{"DEFAULT_CATEGORY": "nope"}))
	assert.Error(t, err)
}
