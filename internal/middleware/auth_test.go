package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestAuthRequired(t *testing.T) {
	verifier := NewTokenVerifier(testSecret, "", "")

	app := fiber.New()
	app.Get("/test", AuthRequired(verifier), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"subject": SubjectFrom(c)})
	})

	generateToken := func(subject string, exp time.Duration) string {
		s, err := verifier.Sign(subject, exp)
		require.NoError(t, err)
		return s
	}

	noneToken := func() string {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user_abc"})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name            string
		authHeader      string
		expectedStatus  int
		expectedSubject string
	}{
		{
			name:            "Happy Path",
			authHeader:      "Bearer " + generateToken("user_abc", time.Hour),
			expectedStatus:  http.StatusOK,
			expectedSubject: "user_abc",
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Token",
			authHeader:     "Bearer malformed.token.here",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + generateToken("user_abc", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unsigned Token",
			authHeader:     "Bearer " + noneToken(),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Empty Subject",
			authHeader:     "Bearer " + generateToken("", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedSubject, body["subject"])
			} else {
				assert.Equal(t, "UNAUTHENTICATED", body["code"])
			}
		})
	}
}

func TestTokenVerifier_IssuerAndAudience(t *testing.T) {
	strict := NewTokenVerifier(testSecret, "https://id.example.com", "lumen-mobile")

	good, err := strict.Sign("user_1", time.Hour)
	require.NoError(t, err)
	sub, err := strict.Subject(good)
	require.NoError(t, err)
	assert.Equal(t, "user_1", sub)

	foreign := NewTokenVerifier(testSecret, "https://other.example.com", "lumen-mobile")
	wrongIss, err := foreign.Sign("user_1", time.Hour)
	require.NoError(t, err)
	_, err = strict.Subject(wrongIss)
	assert.ErrorIs(t, err, errBadIssuer)

	loose := NewTokenVerifier(testSecret, "", "")
	unscoped, err := loose.Sign("user_1", time.Hour)
	require.NoError(t, err)
	_, err = strict.Subject(unscoped)
	assert.Error(t, err)

	other := NewTokenVerifier(testSecret, "https://id.example.com", "someone-else")
	wrongAud, err := other.Sign("user_1", time.Hour)
	require.NoError(t, err)
	_, err = strict.Subject(wrongAud)
	assert.ErrorIs(t, err, errBadAudience)
}
