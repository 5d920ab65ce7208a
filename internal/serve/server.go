package serve

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"

	"github.com/lshoy/site/internal/domain/config"
	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/search"
	"github.com/lshoy/site/internal/store"
)

// Server 对外只暴露只读 JSON 接口。文件变更时整棵内容重算：
// 换上一个全新的 Store，旧的那份对正在读的请求仍然有效。
type Server struct {
	cfg config.Config

	mu    sync.RWMutex
	store *store.Store
	idx   search.GroupIndex

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
	rebuilds  atomic.Int64
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:      cfg,
		sseConns: make(map[chan string]struct{}),
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(); err != nil {
		return err
	}

	if s.cfg.Serve.Watch {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("[serve] listening on %s", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/posts", s.handlePosts)
	r.Get("/api/posts/{slug}", s.handlePost)
	r.Get("/api/posts/{slug}/related", s.handleRelated)
	r.Get("/api/groups", s.handleGroups)
	r.Get("/api/tags", s.handleTags)
	r.Get("/dev/events", s.handleSSE)
	return r
}

func (s *Server) rebuild() error {
	st := store.New(s.cfg.Content.SourceDir)
	if err := st.Load(); err != nil {
		return fmt.Errorf("store load: %w", err)
	}
	idx := search.BuildGroupIndex(st.Groups().Groups)

	s.mu.Lock()
	s.store = st
	s.idx = idx
	s.mu.Unlock()

	s.rebuilds.Add(1)
	log.Printf("[serve] rebuild complete")
	s.broadcastSSE("reload")
	return nil
}

func (s *Server) snapshot() (*store.Store, search.GroupIndex) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store, s.idx
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		go s.watchLoop(ctx)

		err = filepath.Walk(s.cfg.Content.SourceDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return w.Add(path)
			}
			return nil
		})
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	log.Printf("[serve] watching %s for changes ...", s.cfg.Content.SourceDir)
	// 一次性定时器：触发过就不再走表，直到下一次事件 Reset
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(200 * time.Millisecond)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[warn] watcher error: %v", err)
		case <-debounce.C:
			if err := s.rebuild(); err != nil {
				log.Printf("[serve] rebuild error: %v", err)
			}
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

// GET /api/posts?group=&q=&limit=
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	st, idx := s.snapshot()

	group := r.URL.Query().Get("group")
	query := r.URL.Query().Get("q")

	items := st.Summaries()
	if group != "" || query != "" {
		items = search.Filter(items, idx, group, query)
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n < len(items) {
			items = items[:n]
		}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	post, ok := st.Get(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()

	limit := s.cfg.Content.RelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	related := st.Related(chi.URLParam(r, "slug"), limit)
	if related == nil {
		related = []content.PostSummary{}
	}
	writeJSON(w, http.StatusOK, related)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	writeJSON(w, http.StatusOK, st.Groups())
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	st, _ := s.snapshot()
	writeJSON(w, http.StatusOK, st.Tags())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[warn] write response: %v", err)
	}
}
