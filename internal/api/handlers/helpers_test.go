package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repoMocks "github.com/aaravmahajanofficial/storefront/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	svcMocks "github.com/aaravmahajanofficial/storefront/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	registry *service.SessionRegistry
	profiles *repoMocks.ProfileRepository
	auth     *svcMocks.MockAuthService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		profiles: new(repoMocks.ProfileRepository),
		auth:     svcMocks.NewMockAuthService(t),
	}
	f.registry = service.NewSessionRegistry(
		&config.Session{IdleTTL: time.Hour, SweepInterval: time.Minute},
		f.profiles,
		testutils.NewTestQueue(t),
		f.auth,
	)

	return f
}

func (f *sessionFixture) guest() *service.Session {
	return f.registry.GetOrCreate(uuid.NewString())
}

// signedIn returns a session bound to a fresh account with an empty profile.
func (f *sessionFixture) signedIn(t *testing.T) (*service.Session, *models.Account) {
	t.Helper()

	account := &models.Account{ID: uuid.New(), Email: "asha@example.com", DisplayName: "Asha", Phone: "9999999999"}
	sessionID := uuid.NewString()

	f.profiles.On("GetProfile", mock.Anything, account.ID).Return(nil, false, nil).Once()
	f.registry.HandleAuthEvent(context.Background(), service.AuthEvent{
		SessionID: sessionID,
		OwnerID:   account.ID,
		Account:   account,
		Session:   &models.AuthSession{OwnerID: account.ID, Email: account.Email},
	})

	sess, ok := f.registry.Get(sessionID)
	require.True(t, ok)

	return sess, account
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return bytes.NewReader(b)
}

// sessionRequest builds a request carrying sess and, when account is set, its claims.
func sessionRequest(method, target string, body *bytes.Reader, sess *service.Session, account *models.Account, pathParams map[string]string) *http.Request {

	var req *http.Request
	if body == nil {
		body = bytes.NewReader(nil)
	}

	if account != nil {
		req = testutils.CreateTestRequestWithContext(method, target, body, account.ID, pathParams)
	} else {
		req = testutils.CreateTestRequestWithoutContext(method, target, body, pathParams)
	}

	req.Header.Set("Content-Type", "application/json")

	if sess == nil {
		return req
	}

	return testutils.WithSession(req, sess)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	return resp
}

// decodeData re-decodes the data field of the envelope into dest.
func decodeData(t *testing.T, resp response.APIResponse, dest any) {
	t.Helper()

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest))
}
