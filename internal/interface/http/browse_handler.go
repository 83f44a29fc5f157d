package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/pkg/response"
	"github.com/gestorly/catalog-api/pkg/validation"
)

// BrowseHandler exposes interactive catalog browsing over HTTP. Each
// session owns a SearchCoordinator, so typing into a search box maps to
// repeated filter updates that get debounced and cancelled server side
// instead of hammering the database once per keystroke.
type BrowseHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger

	debounce    time.Duration
	ttl         time.Duration
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*browseSession
	stop     chan struct{}
	stopOnce sync.Once
}

type browseSession struct {
	coord    *application.SearchCoordinator
	lastSeen time.Time
}

func NewBrowseHandler(svc *application.ProductService, logger *logrus.Logger, debounce, ttl time.Duration, maxSessions int) *BrowseHandler {
	h := &BrowseHandler{
		Svc:         svc,
		Logger:      logger,
		debounce:    debounce,
		ttl:         ttl,
		maxSessions: maxSessions,
		sessions:    make(map[string]*browseSession),
		stop:        make(chan struct{}),
	}
	if ttl > 0 {
		go h.reap()
	}
	return h
}

// reap closes sessions nobody has touched within the TTL.
func (h *BrowseHandler) reap() {
	interval := h.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			h.mu.Lock()
			for id, s := range h.sessions {
				if now.Sub(s.lastSeen) > h.ttl {
					s.coord.Close()
					delete(h.sessions, id)
					h.Logger.WithField("session_id", id).Info("browse session expired")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Shutdown closes every live session and stops the reaper.
func (h *BrowseHandler) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		s.coord.Close()
		delete(h.sessions, id)
	}
}

func (h *BrowseHandler) lookup(c *gin.Context) (string, *browseSession, bool) {
	id := c.Param("id")
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok {
		response.Error(c, http.StatusNotFound, "browse session not found", nil)
		return "", nil, false
	}
	s.lastSeen = time.Now()
	return id, s, true
}

type filtersRequest struct {
	Text   *string `json:"text"`
	Status *string `json:"status" binding:"omitempty,oneof=all active inactive"`
}

type snapshotView struct {
	SessionID string        `json:"session_id"`
	Text      string        `json:"text"`
	Status    string        `json:"status"`
	Busy      bool          `json:"busy"`
	Error     string        `json:"error,omitempty"`
	Products  []productView `json:"products"`
}

func toSnapshotView(id string, snap application.Snapshot) snapshotView {
	status := "all"
	if snap.Active != nil {
		if *snap.Active {
			status = "active"
		} else {
			status = "inactive"
		}
	}
	return snapshotView{
		SessionID: id,
		Text:      snap.Text,
		Status:    status,
		Busy:      snap.Busy,
		Error:     snap.Error,
		Products:  toProductViews(snap.Products),
	}
}

func statusToActive(status string) *bool {
	switch status {
	case "active":
		v := true
		return &v
	case "inactive":
		v := false
		return &v
	default:
		return nil
	}
}

// Create POST /api/catalog/browse
// Opens a session and kicks off the initial unfiltered load. Each session
// owns a coordinator with its own timers and goroutines, so the total is
// capped; the reaper only bounds lifetime, not burst count.
func (h *BrowseHandler) Create(c *gin.Context) {
	id := uuid.New().String()
	coord := application.NewSearchCoordinator(h.Svc, h.Logger, h.debounce)

	h.mu.Lock()
	if h.maxSessions > 0 && len(h.sessions) >= h.maxSessions {
		h.mu.Unlock()
		coord.Close()
		response.Error(c, http.StatusTooManyRequests, "too many active browse sessions, try again later", nil)
		return
	}
	h.sessions[id] = &browseSession{coord: coord, lastSeen: time.Now()}
	h.mu.Unlock()

	coord.Load()
	response.Success(c, http.StatusCreated, toSnapshotView(id, coord.Snapshot()), "browse session created")
}

// Snapshot GET /api/catalog/browse/:id
func (h *BrowseHandler) Snapshot(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, toSnapshotView(id, s.coord.Snapshot()), "browse snapshot")
}

// SetFilters PUT /api/catalog/browse/:id/filters
// Text edits are debounced; status changes apply immediately. The
// response snapshot usually reports busy=true while the reload runs.
func (h *BrowseHandler) SetFilters(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req filtersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if req.Text != nil {
		s.coord.SetSearchText(*req.Text)
	}
	if req.Status != nil {
		s.coord.SetStatus(statusToActive(*req.Status))
	}
	response.Success(c, http.StatusOK, toSnapshotView(id, s.coord.Snapshot()), "filters updated")
}

// ClearFilters POST /api/catalog/browse/:id/clear
func (h *BrowseHandler) ClearFilters(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	s.coord.ClearFilters()
	response.Success(c, http.StatusOK, toSnapshotView(id, s.coord.Snapshot()), "filters cleared")
}

// Refresh POST /api/catalog/browse/:id/refresh
// Reloads with the current filters. A no-op while a load is in flight.
func (h *BrowseHandler) Refresh(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	s.coord.Load()
	response.Success(c, http.StatusOK, toSnapshotView(id, s.coord.Snapshot()), "reload started")
}

// Delete DELETE /api/catalog/browse/:id
func (h *BrowseHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	if ok {
		s.coord.Close()
	}
	c.Status(http.StatusNoContent)
}
