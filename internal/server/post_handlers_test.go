package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePostHandler(t *testing.T) {
	png := testutil.TinyPNG(t, 4, 4)

	fields := map[string]string{
		"title":       "First Post",
		"category":    "Education",
		"description": "A long enough description",
	}

	t.Run("Success", func(t *testing.T) {
		ts := newTestServer(t)

		ts.userRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1}, nil)
		ts.postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.Title == "First Post" && p.CreatorID == 1
		})).Return(nil)
		ts.userRepo.On("IncrementPostCount", mock.Anything, uint(1)).Return(nil)

		req := multipartRequest(t, "POST", "/api/posts/", fields, "thumbnail", "pic.png", png)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 1, "Ada"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "First Post", body["title"])
		thumbnail, _ := body["thumbnail"].(string)
		assert.True(t, ts.files.Has(thumbnail))
	})

	t.Run("Missing Thumbnail", func(t *testing.T) {
		ts := newTestServer(t)

		req := multipartRequest(t, "POST", "/api/posts/", fields, "", "", nil)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 1, "Ada"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Fill in all fields and choose thumbnail", body["message"])
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		ts := newTestServer(t)

		req := multipartRequest(t, "POST", "/api/posts/", fields, "thumbnail", "pic.png", png)
		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPostsHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.postRepo.On("List", mock.Anything, 20, 0).
		Return([]models.Post{{ID: 2, Title: "Newer"}, {ID: 1, Title: "Older"}}, nil)

	resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetPostHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer(t)

		ts.postRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, Title: "A Post", CreatorID: 1}, nil)

		resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/5", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "A Post", body["title"])
	})

	t.Run("Not Found", func(t *testing.T) {
		ts := newTestServer(t)

		ts.postRepo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post", uint(99)))

		resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/99", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		ts := newTestServer(t)

		resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/not-a-number", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetCatPostsHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.postRepo.On("GetByCategory", mock.Anything, "Weather", 20, 0).
		Return([]models.Post{{ID: 3, Category: "Weather"}}, nil)

	resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/categories/Weather", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetUserPostsHandler(t *testing.T) {
	ts := newTestServer(t)

	ts.postRepo.On("GetByCreatorID", mock.Anything, uint(9), 20, 0).
		Return([]models.Post{{ID: 4, CreatorID: 9}}, nil)

	resp, err := ts.app.Test(httptest.NewRequest("GET", "/api/posts/users/9", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEditPostHandler(t *testing.T) {
	fields := map[string]string{
		"title":       "Updated Title",
		"category":    "Art",
		"description": "an updated long description",
	}

	t.Run("Success Without Thumbnail", func(t *testing.T) {
		ts := newTestServer(t)

		ts.postRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, Title: "Old", Category: "Art", CreatorID: 1, Thumbnail: "old.png"}, nil)
		ts.postRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		req := multipartRequest(t, "PATCH", "/api/posts/5", fields, "", "", nil)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 1, "Ada"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Updated Title", body["title"])
		// the existing thumbnail stays when no replacement is sent
		assert.Equal(t, "old.png", body["thumbnail"])
	})

	t.Run("Forbidden For Non Creator", func(t *testing.T) {
		ts := newTestServer(t)

		ts.postRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, CreatorID: 1, Category: "Art"}, nil)

		req := multipartRequest(t, "PATCH", "/api/posts/5", fields, "", "", nil)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 2, "Eve"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "You can only edit your own posts", body["message"])
	})
}

func TestDeletePostHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ts := newTestServer(t)
		require.NoError(t, ts.files.Save("thumb.png", []byte("data")))

		ts.postRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, CreatorID: 1, Thumbnail: "thumb.png", Category: "Art"}, nil)
		ts.postRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)
		ts.userRepo.On("DecrementPostCount", mock.Anything, uint(1)).Return(nil)

		req := httptest.NewRequest("DELETE", "/api/posts/5", nil)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 1, "Ada"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Post deleted", body["message"])
		assert.False(t, ts.files.Has("thumb.png"))
	})

	t.Run("Forbidden For Non Creator", func(t *testing.T) {
		ts := newTestServer(t)

		ts.postRepo.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Post{ID: 5, CreatorID: 1, Category: "Art"}, nil)

		req := httptest.NewRequest("DELETE", "/api/posts/5", nil)
		req.Header.Set("Authorization", "Bearer "+ts.token(t, 2, "Eve"))

		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		ts.postRepo.AssertNotCalled(t, "Delete")
	})
}
