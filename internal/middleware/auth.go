package middleware

import (
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	adapter "github.com/gwatts/gin-adapter"
)

// UserIDKey is the gin context key for the authenticated subject. The
// real JWT path never writes it; test setups store a fake subject under
// it directly.
const UserIDKey = "user_id"

// JWT validates bearer tokens issued by the configured Auth0 tenant.
// Token issuance is the identity provider's job; this server only
// validates.
func JWT(domain, audience string) (gin.HandlerFunc, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
	)
	if err != nil {
		return nil, err
	}

	return checkJWT(jwtValidator.ValidateToken), nil
}

// checkJWT bridges the net/http token check into gin. The adapter runs
// the rest of the gin chain inside the wrapped handler's next call, so
// route handlers execute while c.Request still carries the validated
// claims; GetUserID reads them from there. Anything appended after the
// bridge in the middleware chain runs too late to see the claims.
func checkJWT(validate jwtmiddleware.ValidateToken) gin.HandlerFunc {
	return adapter.Wrap(jwtmiddleware.New(validate).CheckJWT)
}

// GetUserID extracts the authenticated subject: a fake subject stored in
// the gin context if a test put one there, otherwise the sub claim of
// the validated token in the request context.
func GetUserID(c *gin.Context) (string, bool) {
	if v, exists := c.Get(UserIDKey); exists {
		id, ok := v.(string)
		return id, ok
	}
	claims, ok := c.Request.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}
