package demohost

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrsinham/patientdesk/internal/api"
	"github.com/mrsinham/patientdesk/internal/patient"
)

// Handler serves the store over the host's HTTP contract.
type Handler struct {
	store *Store
	log   zerolog.Logger
}

// NewHandler creates a handler over store.
func NewHandler(store *Store, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// RegisterRoutes mounts the contract under r.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.SavePatient)
		patients.GET("/:id", h.GetPatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.POST("/:id/report", h.GenerateReport)
		patients.GET("/:id/qr", h.QRData)
		patients.POST("/:id/email", h.SendEmail)
		patients.POST("/:id/whatsapp", h.SendWhatsApp)
		patients.POST("/:id/folder", h.OpenFolder)
	}
	r.POST("/dashboard/open", h.OpenDashboard)
}

// NewRouter builds the gin engine with logging and recovery.
func NewRouter(store *Store, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	// Ids may contain escaped slashes.
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(RequestLogger(log), gin.Recovery())

	NewHandler(store, log).RegisterRoutes(r.Group("/api"))
	return r
}

// ListPatients answers get_patients.
func (h *Handler) ListPatients(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// GetPatient answers get_patient_details. Unknown ids get an empty object.
func (h *Handler) GetPatient(c *gin.Context) {
	d, ok := h.store.Detail(c.Param("id"))
	if !ok {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, d)
}

// SavePatient answers save_patient with a bare boolean.
func (h *Handler) SavePatient(c *gin.Context) {
	var d patient.Detail
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.Save(d))
}

// DeletePatient answers delete_patient with a bare boolean.
func (h *Handler) DeletePatient(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Delete(c.Param("id")))
}

// GenerateReport answers generate_report.
func (h *Handler) GenerateReport(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Generate(c.Param("id")))
}

// QRData answers get_qr_data with a JSON string.
func (h *Handler) QRData(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.QRData(c.Query("name"), c.Param("id")))
}

// SendEmail answers send_email. Nothing is delivered; the link is logged.
func (h *Handler) SendEmail(c *gin.Context) {
	id := c.Param("id")
	if link, ok := h.store.SendEmail(id); ok {
		h.log.Info().Str("patient_id", id).Str("link", link).Msg("email composed")
	}
	c.Status(http.StatusNoContent)
}

// SendWhatsApp answers send_whatsapp. Nothing is delivered; the link is logged.
func (h *Handler) SendWhatsApp(c *gin.Context) {
	id := c.Param("id")
	if link, ok := h.store.SendWhatsApp(id); ok {
		h.log.Info().Str("patient_id", id).Str("link", link).Msg("whatsapp message composed")
	}
	c.Status(http.StatusNoContent)
}

// OpenFolder answers open_folder.
func (h *Handler) OpenFolder(c *gin.Context) {
	id := c.Param("id")
	if folder, ok := h.store.Folder(id); ok {
		h.log.Info().Str("patient_id", id).Str("folder", folder).Msg("open folder")
	}
	c.Status(http.StatusNoContent)
}

// OpenDashboard answers open_vercel.
func (h *Handler) OpenDashboard(c *gin.Context) {
	h.log.Info().Str("url", DashboardURL).Msg("open dashboard")
	c.Status(http.StatusNoContent)
}

// RequestLogger logs one line per request, reusing the caller's request id
// when one is sent.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(api.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(api.RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= 500:
			evt = log.Error()
		case status >= 400:
			evt = log.Warn()
		}
		evt.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("demo host: %w", err)
	}
	return ServeListener(ctx, ln, handler, log)
}

// ServeListener is Serve on an already bound listener.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("demo host listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("demo host: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down demo host: %w", err)
		}
		return nil
	}
}
