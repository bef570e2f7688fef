package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	srv      *Server
	app      *fiber.App
	userRepo *testutil.MockUserRepository
	postRepo *testutil.MockPostRepository
	files    *testutil.MemStore
}

// newTestServer wires a Server over mocked repositories and an in-memory file
// store, with routes registered without rate limiting.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		JWTSecret: "test-secret-0123456789abcdef",
		Port:      "8080",
		UploadDir: t.TempDir(),
	}
	middleware.InitMiddleware(cfg)

	userRepo := new(testutil.MockUserRepository)
	postRepo := new(testutil.MockPostRepository)
	files := testutil.NewMemStore()

	srv := &Server{
		config:      cfg,
		files:       files,
		userRepo:    userRepo,
		postRepo:    postRepo,
		userService: service.NewUserService(userRepo, files),
		postService: service.NewPostService(postRepo, userRepo, files),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", srv.Register)
	users.Post("/login", srv.Login)
	users.Get("/authors", srv.GetAuthors)
	users.Post("/change-avatar", middleware.AuthRequired, srv.ChangeAvatar)
	users.Post("/edit-user", middleware.AuthRequired, srv.EditUser)
	users.Get("/:id", srv.GetUser)

	posts := api.Group("/posts")
	posts.Post("/", middleware.AuthRequired, srv.CreatePost)
	posts.Get("/", srv.GetPosts)
	posts.Get("/categories/:category", srv.GetCatPosts)
	posts.Get("/users/:id", srv.GetUserPosts)
	posts.Get("/:id", srv.GetPost)
	posts.Patch("/:id", middleware.AuthRequired, srv.EditPost)
	posts.Delete("/:id", middleware.AuthRequired, srv.DeletePost)

	return &testServer{
		srv:      srv,
		app:      app,
		userRepo: userRepo,
		postRepo: postRepo,
		files:    files,
	}
}

// token mints a signed JWT for the given user, as Login would.
func (ts *testServer) token(t *testing.T, userID uint, name string) string {
	t.Helper()
	token, err := ts.srv.generateToken(userID, name)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a multipart form request with the given text fields
// and, when fileField is non-empty, one file part.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
