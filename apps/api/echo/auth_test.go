package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_home(t *testing.T) {
	env := newTestEnv(t)

	req, rec := newRequest(http.MethodGet, "/")
	env.app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to School Management System API!", rec.Body.String())
}

func Test_authApi_login(t *testing.T) {
	env := newTestEnv(t)

	login := func(email, pwd string) []byte {
		return marchallObj(t, LoginRequest{Email: email, Password: pwd})
	}
	authFailed := marchallObj(t, httpErr{Error: "authentication failed"})

	env.run(t, []httpTest{
		{
			name: "empty body", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email":"this field is required","password":"this field is required"}`),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/auth/login",
			body: login("head@school.test", adminPassword), wantCode: http.StatusBadRequest, wantData: authFailed,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body: login(env.conf.Admin.Email, "nope"), wantCode: http.StatusBadRequest, wantData: authFailed,
		},
	})

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", login("  ADMIN@school.test ", adminPassword))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims, err := parseToken(env.conf, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, env.conf.Admin.Email, claims.Email)
		assert.Equal(t, env.conf.AppName, claims.Issuer)
	})
}

func Test_authApi_login_noPasswordConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.conf.Admin.PasswordHash = ""

	env.run(t, []httpTest{
		{
			name: "login disabled", method: http.MethodPost, path: "/v1/auth/login",
			body:     marchallObj(t, LoginRequest{Email: env.conf.Admin.Email, Password: adminPassword}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	})
}

func Test_jwtMiddleware(t *testing.T) {
	env := newTestEnv(t)

	otherConf := *env.conf
	otherConf.SecretKey = "not-the-secret"

	env.run(t, []httpTest{
		{
			name: "missing token", path: "/v1/classes",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "missing or malformed jwt"}),
		},
		{
			name: "garbage token", path: "/v1/classes", token: "abc.def.ghi",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "wrong signature", path: "/v1/classes", token: getToken(t, &otherConf),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{name: "valid token", path: "/v1/classes", token: env.token, wantCode: http.StatusOK, wantData: []byte(`[]`)},
	})

	t.Run("expired token", func(t *testing.T) {
		issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		freezeTime(t, issued)
		token := getToken(t, env.conf)

		freezeTime(t, issued.Add(env.conf.Server.JWTExpirationDelta+time.Minute))
		req, rec := newAuthRequest(http.MethodGet, "/v1/classes", token)
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	env := newTestEnv(t)

	t.Run("refresh keeps the original issue time", func(t *testing.T) {
		issued := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		freezeTime(t, issued)
		token := getToken(t, env.conf)

		freezeTime(t, issued.Add(time.Hour))
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", token)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		claims, err := parseToken(env.conf, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, issued.Unix(), claims.OrigIssuedAt)
		assert.Equal(t, issued.Add(time.Hour).Add(env.conf.Server.JWTExpirationDelta).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("refresh window elapsed", func(t *testing.T) {
		now := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
		freezeTime(t, now)
		longAgo := now.Add(-env.conf.Server.JWTRefreshExpirationDelta - time.Hour).Unix()
		token, err := GenerateToken(env.conf, newClaims(env.conf, env.conf.Admin.Email, longAgo))
		require.NoError(t, err)

		env.run(t, []httpTest{
			{
				name: "forbidden", method: http.MethodPost, path: "/v1/auth/token-refresh", token: token,
				wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
			},
		})
	})
}
