package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rohan/tender-scout/internal/auth"
	"github.com/rohan/tender-scout/internal/db"
	"github.com/rohan/tender-scout/internal/filterstate"
	"github.com/rohan/tender-scout/internal/models"
	"github.com/rohan/tender-scout/internal/query"
	"github.com/rohan/tender-scout/internal/source"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Source      *source.Client

	batch batchHolder
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, src *source.Client) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		DB:          pool,
		Store:       db.NewStore(pool),
		AuthService: auth.NewService(pool),
		Echo:        e,
		Source:      src,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.GET("/tenders", s.handleListTenders)
	api.GET("/tenders/:id", s.handleGetTender)
	api.GET("/work-types", s.handleGetWorkTypes)
	api.GET("/stats", s.handleGetStats)

	// Admin Routes
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/refresh", s.handleRefresh)

	// Auth Routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected Routes (Saved Tenders)
	saved := api.Group("/saved")
	saved.Use(auth.Middleware)
	saved.POST("/:id", s.handleSaveTender)
	saved.DELETE("/:id", s.handleUnsaveTender)
	saved.GET("", s.handleGetSavedTenders)
	saved.GET("/batch", s.handleGetSavedFromBatch)

	// Protected Routes (Filter State)
	filters := api.Group("/filters")
	filters.Use(auth.Middleware)
	filters.GET("/:namespace", s.handleGetFilterState)
	filters.PUT("/:namespace", s.handlePutFilterState)
}

// SetBatch replaces the in-memory tender batch. Called at startup with the
// persisted snapshot and after every successful refresh.
func (s *Server) SetBatch(tenders []models.Tender) {
	s.batch.Swap(tenders)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// parseFilterState maps query parameters onto a FilterState, starting from
// the defaults so omitted parameters keep their sentinel values.
func parseFilterState(c echo.Context) models.FilterState {
	f := models.DefaultFilterState()

	if v := c.QueryParam("q"); v != "" {
		f.SearchTerm = v
	}
	if v := c.QueryParam("organization"); v != "" {
		f.Organization = v
	}
	if v := c.QueryParam("state"); v != "" {
		f.State = v
	}
	if v := c.QueryParam("work_type"); v != "" {
		f.WorkType = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("amount_min"), 64); err == nil && v > 0 {
		f.AmountMin = v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("amount_max"), 64); err == nil && v > 0 {
		f.AmountMax = v
	}
	if v := c.QueryParam("today_only"); v != "" {
		f.TodayOnly = strings.EqualFold(v, "true")
	}
	if v := c.QueryParam("sort"); v != "" {
		f.SortBy = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 && v <= 100 {
		f.PageSize = v
	}
	if v := c.QueryParam("paginate"); v != "" {
		f.Paginate = !strings.EqualFold(v, "false")
	}

	return f
}

func (s *Server) handleListTenders(c echo.Context) error {
	f := parseFilterState(c)
	today := models.DateOf(time.Now())

	result := query.Run(s.batch.Current(), f, today)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetTender(c echo.Context) error {
	id := c.Param("id")

	for _, t := range s.batch.Current() {
		if t.ID == id {
			return c.JSON(http.StatusOK, t)
		}
	}

	// Fall back to the snapshot: the tender may have rotated out of the
	// current batch but still be referenced by a saved link.
	t, err := s.Store.GetTender(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleGetWorkTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, models.WorkTypes)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	stats["in_memory_batch"] = len(s.batch.Current())
	if ts := s.batch.RefreshedAt(); !ts.IsZero() {
		stats["batch_refreshed_at"] = ts.UTC().Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleRefresh(c echo.Context) error {
	if s.Source == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "no upstream source configured"})
	}

	tenders, err := s.Source.FetchBatch(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Refresh failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	s.batch.Swap(tenders)

	if err := s.Store.UpsertSnapshot(c.Request().Context(), tenders); err != nil {
		// The in-memory batch already serves the new data; the snapshot
		// catches up on the next refresh.
		c.Logger().Errorf("Snapshot persist failed: %v", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Refresh complete",
		"count":   len(tenders),
	})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// Protected Handlers

func (s *Server) handleSaveTender(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	tenderID := strings.TrimSpace(c.Param("id"))
	if tenderID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tender ID"})
	}

	if err := s.Store.SaveTender(ctx, userID.String(), tenderID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save tender"})
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) handleUnsaveTender(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	tenderID := strings.TrimSpace(c.Param("id"))
	if tenderID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tender ID"})
	}

	if err := s.Store.UnsaveTender(ctx, userID.String(), tenderID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to unsave tender"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "unsaved"})
}

func (s *Server) handleGetSavedTenders(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	tenders, err := s.Store.GetSavedTenders(ctx, userID.String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved tenders"})
	}

	return c.JSON(http.StatusOK, tenders)
}

// handleGetSavedFromBatch intersects the user's saved-ID set with the
// current batch and runs the result through the same filter/sort/page
// pipeline as the main listing. Saved tenders that have rotated out of the
// batch are served by handleGetSavedTenders from the snapshot instead.
func (s *Server) handleGetSavedFromBatch(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ids, err := s.Store.GetSavedTenderIDs(ctx, userID.String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch saved tenders"})
	}

	saved := filterByIDs(s.batch.Current(), ids)
	result := query.Run(saved, parseFilterState(c), models.DateOf(time.Now()))
	return c.JSON(http.StatusOK, result)
}

// filterByIDs keeps the tenders whose ID is in the given set, preserving
// batch order.
func filterByIDs(tenders []models.Tender, ids []string) []models.Tender {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	var out []models.Tender
	for _, t := range tenders {
		if _, ok := set[t.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) handleGetFilterState(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	namespace := c.Param("namespace")
	store := filterstate.NewStore(s.Store.FilterStorage(userID.String()))

	state := store.Load(c.Request().Context(), namespace)
	if state == nil {
		defaults := models.DefaultFilterState()
		state = &defaults
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) handlePutFilterState(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var state models.FilterState
	if err := c.Bind(&state); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	namespace := c.Param("namespace")
	store := filterstate.NewStore(s.Store.FilterStorage(userID.String()))
	store.Save(c.Request().Context(), namespace, state)

	return c.JSON(http.StatusOK, state.WithDefaults())
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
