package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithSession(t *testing.T) {
	t.Run("Success - Issues Session ID When Missing", func(t *testing.T) {
		// Arrange
		f := newSessionFixture(t)
		var got string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := handlers.SessionFromContext(r.Context())
			require.True(t, ok)
			got = sess.ID
		})
		rr := httptest.NewRecorder()

		// Act
		handlers.WithSession(f.registry)(next).ServeHTTP(rr, testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil))

		// Assert
		id := rr.Header().Get(handlers.SessionHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, 1, f.registry.Len())
	})

	t.Run("Success - Reuses Existing Session", func(t *testing.T) {
		f := newSessionFixture(t)
		id := uuid.NewString()
		existing := f.registry.GetOrCreate(id)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		req.Header.Set(handlers.SessionHeader, id)
		rr := httptest.NewRecorder()

		handlers.WithSession(f.registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := handlers.SessionFromContext(r.Context())
			assert.Same(t, existing, sess)
		})).ServeHTTP(rr, req)

		assert.Equal(t, id, rr.Header().Get(handlers.SessionHeader))
	})

	t.Run("Success - Replaces Malformed Session ID", func(t *testing.T) {
		f := newSessionFixture(t)
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/", nil, nil)
		req.Header.Set(handlers.SessionHeader, "not-a-uuid")
		rr := httptest.NewRecorder()

		handlers.WithSession(f.registry)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

		assert.NotEqual(t, "not-a-uuid", rr.Header().Get(handlers.SessionHeader))
	})

	t.Run("Success - Binds Token Owner", func(t *testing.T) {
		// Arrange
		f := newSessionFixture(t)
		account := &models.Account{ID: uuid.New(), Email: "asha@example.com"}
		f.auth.On("GetAccount", mock.Anything, account.ID).Return(account, nil).Once()
		f.profiles.On("GetProfile", mock.Anything, account.ID).Return(nil, false, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/", nil, account.ID, nil)
		rr := httptest.NewRecorder()

		// Act
		handlers.WithSession(f.registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := handlers.SessionFromContext(r.Context())
			ownerID, _, signedIn := sess.Identity()
			assert.True(t, signedIn)
			assert.Equal(t, account.ID, ownerID)
		})).ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Token Owner No Longer Exists", func(t *testing.T) {
		f := newSessionFixture(t)
		ownerID := uuid.New()
		f.auth.On("GetAccount", mock.Anything, ownerID).Return(nil, appErrors.NotFoundError("Account not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/", nil, ownerID, nil)
		rr := httptest.NewRecorder()

		handlers.WithSession(f.registry)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler must not run")
		})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestSessionFromContext_Missing(t *testing.T) {
	_, ok := handlers.SessionFromContext(context.Background())
	assert.False(t, ok)

	_, ok = middleware.ClaimsFromContext(context.Background())
	assert.False(t, ok)
}
