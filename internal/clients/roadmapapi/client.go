package roadmapapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/roadmap-client/internal/apierr"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/types"
	"github.com/yungbote/roadmap-client/internal/utils"
)

// Client is the typed surface of the remote roadmap service. All methods
// return the decoded success payload or an *apierr.Error describing the
// failure; a missing roadmap is reported as apierr.ErrNoRoadmap.
type Client interface {
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	Register(ctx context.Context, req RegisterRequest) (*types.User, string, error)
	GetCurrentUser(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, req ProfileUpdate) (*types.User, error)

	GetRoadmap(ctx context.Context) (*types.Roadmap, error)
	GetCurrentWeek(ctx context.Context) (*types.CurrentWeekProjection, error)
	CreateRoadmap(ctx context.Context, targetRole string) (*types.Roadmap, error)
	UpdateTaskCompletion(ctx context.Context, weekID, taskID string, completed bool) (*types.Roadmap, error)
	DeleteRoadmap(ctx context.Context) error

	SetToken(token string)
	ClearToken()
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv() Config {
	timeoutSec := utils.GetEnvAsInt("ROADMAP_API_TIMEOUT_SECONDS", 30, nil)
	return Config{
		BaseURL: strings.TrimSpace(os.Getenv("ROADMAP_API_BASE_URL")),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		log:        log.With("client", "RoadmapAPIClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name                   string                `json:"name"`
	TargetRole             string                `json:"targetRole"`
	ExperienceLevel        types.ExperienceLevel `json:"experienceLevel"`
	WeeklyTimeAvailability int                   `json:"weeklyTimeAvailability"`
	Skills                 []types.Skill         `json:"skills"`
}

// authPayload is the body of login/register responses: the bearer token plus
// the user it belongs to.
type authPayload struct {
	Token string      `json:"token"`
	User  *types.User `json:"user"`
}

func (c *client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *client) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &payload); err != nil {
		return nil, "", err
	}
	if payload.User == nil || payload.Token == "" {
		return nil, "", apierr.New(0, "", fmt.Errorf("login response missing token or user"))
	}
	c.SetToken(payload.Token)
	return payload.User, payload.Token, nil
}

func (c *client) Register(ctx context.Context, req RegisterRequest) (*types.User, string, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &payload); err != nil {
		return nil, "", err
	}
	if payload.User == nil || payload.Token == "" {
		return nil, "", apierr.New(0, "", fmt.Errorf("register response missing token or user"))
	}
	c.SetToken(payload.Token)
	return payload.User, payload.Token, nil
}

func (c *client) GetCurrentUser(ctx context.Context) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *client) UpdateProfile(ctx context.Context, req ProfileUpdate) (*types.User, error) {
	var user types.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *client) GetRoadmap(ctx context.Context) (*types.Roadmap, error) {
	var roadmap types.Roadmap
	if err := c.do(ctx, http.MethodGet, "/api/roadmaps", nil, &roadmap); err != nil {
		return nil, c.mapNotFound(err)
	}
	return &roadmap, nil
}

func (c *client) GetCurrentWeek(ctx context.Context) (*types.CurrentWeekProjection, error) {
	var week types.CurrentWeekProjection
	if err := c.do(ctx, http.MethodGet, "/api/roadmaps/current-week", nil, &week); err != nil {
		return nil, c.mapNotFound(err)
	}
	return &week, nil
}

func (c *client) CreateRoadmap(ctx context.Context, targetRole string) (*types.Roadmap, error) {
	body := map[string]string{"targetRole": targetRole}
	var roadmap types.Roadmap
	if err := c.do(ctx, http.MethodPost, "/api/roadmaps", body, &roadmap); err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (c *client) UpdateTaskCompletion(ctx context.Context, weekID, taskID string, completed bool) (*types.Roadmap, error) {
	path := fmt.Sprintf("/api/roadmaps/tasks/%s/%s", weekID, taskID)
	body := map[string]bool{"completed": completed}
	var roadmap types.Roadmap
	if err := c.do(ctx, http.MethodPut, path, body, &roadmap); err != nil {
		return nil, err
	}
	return &roadmap, nil
}

func (c *client) DeleteRoadmap(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/roadmaps", nil, nil)
}

// mapNotFound rewrites a bare 404 into the ErrNoRoadmap sentinel so callers
// can branch on the expected-absence case without inspecting statuses.
func (c *client) mapNotFound(err error) error {
	if apierr.IsNotFound(err) {
		return fmt.Errorf("%w: %v", apierr.ErrNoRoadmap, err)
	}
	return err
}

// envelope is the wire format of every response: data on success, message on
// failure.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	tracer := otel.Tracer("roadmapapi")
	ctx, span := tracer.Start(ctx, fmt.Sprintf("roadmapapi.%s %s", method, path))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			span.SetStatus(codes.Error, "marshal request")
			return apierr.New(0, "", fmt.Errorf("marshal request body: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return apierr.New(0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "transport")
		c.log.Debug("Request transport failure", "method", method, "path", path, "error", err)
		return apierr.New(0, "", fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read body")
		return apierr.New(resp.StatusCode, "", fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		span.SetStatus(codes.Error, env.Message)
		return apierr.New(resp.StatusCode, env.Message, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		span.SetStatus(codes.Error, "decode envelope")
		return apierr.New(resp.StatusCode, "", fmt.Errorf("decode response envelope: %w", err))
	}
	if len(env.Data) == 0 {
		return apierr.New(resp.StatusCode, "", fmt.Errorf("%s %s: empty data payload", method, path))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		span.SetStatus(codes.Error, "decode payload")
		return apierr.New(resp.StatusCode, "", fmt.Errorf("decode response payload: %w", err))
	}
	return nil
}
