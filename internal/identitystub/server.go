package identitystub

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sloggin "github.com/samber/slog-gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = time.Hour
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
)

// Options tunes the stub. Zero values fall back to defaults.
type Options struct {
	// TokenTTL bounds issued access tokens and their sessions.
	TokenTTL time.Duration
	// RateLimit and RateWindow shape the per-email attempt window.
	RateLimit  int
	RateWindow time.Duration
	// Clock supplies the current time. Tests freeze it.
	Clock func() time.Time
	// Logger receives request and event logs.
	Logger *slog.Logger
}

// Server is the in-memory identity backend.
type Server struct {
	users    map[string]User
	sessions *sessionStore
	limiter  *emailLimiter
	jwtKey   []byte
	tokenTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
	engine   *gin.Engine
}

// New builds a stub serving the given fixture users. The signing key
// must be non-empty; emails are normalized to lower case.
func New(users []User, jwtKey []byte, opts Options) (*Server, error) {
	if len(jwtKey) == 0 {
		return nil, errors.New("identitystub: signing key required")
	}

	byEmail := make(map[string]User, len(users))
	for _, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" {
			return nil, errors.New("identitystub: user email required")
		}
		if _, dup := byEmail[email]; dup {
			return nil, errors.New("identitystub: duplicate user email " + email)
		}
		u.Email = email
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		byEmail[email] = u
	}

	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = defaultRateWindow
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		users:    byEmail,
		sessions: newSessionStore(),
		limiter:  newEmailLimiter(opts.RateLimit, opts.RateWindow),
		jwtKey:   jwtKey,
		tokenTTL: opts.TokenTTL,
		now:      opts.Clock,
		logger:   opts.Logger.With("component", "identitystub"),
	}
	s.engine = s.buildRouter()
	return s, nil
}

// Handler returns the HTTP surface for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sloggin.New(s.logger))
	r.Use(metricsMiddleware())

	r.POST("/v1/sessions", s.createSession)
	r.GET("/v1/users/me", s.getIdentity)
	r.DELETE("/v1/sessions/current", s.deleteSession)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type createSessionRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionCreatedResponse struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
}

type identityPayload struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfileComplete bool   `json:"profile_complete"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		LoginAttemptsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	now := s.now()

	if !s.limiter.allow(email, now) {
		LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Email rate limit exceeded"})
		return
	}

	user, ok := s.users[email]
	if !ok {
		LoginAttemptsTotal.WithLabelValues("user_not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login credentials"})
		return
	}

	token, expires, err := s.issueToken(user, now)
	if err != nil {
		s.logger.Error("sign token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	sess := &session{
		id:        uuid.NewString(),
		token:     token,
		userEmail: user.Email,
		expiresAt: expires,
	}
	if err := s.sessions.create(sess, now); err != nil {
		LoginAttemptsTotal.WithLabelValues("conflict").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "session conflict: an active session already exists for this account"})
		return
	}

	LoginAttemptsTotal.WithLabelValues("created").Inc()
	ActiveSessions.Set(float64(s.sessions.active(now)))
	s.logger.Debug("session created", "session_id", sess.id, "email", user.Email)

	c.JSON(http.StatusCreated, sessionCreatedResponse{
		SessionID:   sess.id,
		AccessToken: token,
	})
}

func (s *Server) getIdentity(c *gin.Context) {
	sess, ok := s.sessions.lookup(bearerToken(c), s.now())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	user, ok := s.users[sess.userEmail]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	c.JSON(http.StatusOK, identityPayload{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		ProfileComplete: user.ProfileComplete,
	})
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.sessions.remove(bearerToken(c)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}

	LogoutsTotal.Inc()
	ActiveSessions.Set(float64(s.sessions.active(s.now())))
	c.Status(http.StatusNoContent)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) issueToken(u User, now time.Time) (string, time.Time, error) {
	expires := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	return signed, expires, err
}

func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}
