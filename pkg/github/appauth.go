package github

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v57/github"

	"github.com/mhelmih/docureco/pkg/config"
)

// appJWT builds the short-lived RS256 token a GitHub App authenticates with.
// GitHub requires iat in the past and caps the lifetime at 10 minutes.
func appJWT(appID int64, pemKey []byte) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
	if err != nil {
		return "", fmt.Errorf("failed to parse App private key: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    strconv.FormatInt(appID, 10),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign App JWT: %w", err)
	}
	return signed, nil
}

// installationToken exchanges an App JWT for an installation access token.
// The private key comes from DOCURECO_GITHUB_APP_PRIVATE_KEY (PEM content) or
// DOCURECO_GITHUB_APP_PRIVATE_KEY_FILE (path).
func installationToken(ctx context.Context, cfg *config.Config) (string, error) {
	pemKey := []byte(os.Getenv("DOCURECO_GITHUB_APP_PRIVATE_KEY"))
	if len(pemKey) == 0 {
		keyFile := os.Getenv("DOCURECO_GITHUB_APP_PRIVATE_KEY_FILE")
		if keyFile == "" {
			return "", fmt.Errorf("%w: App private key not configured", errCredentialsRequired)
		}
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read App private key: %w", err)
		}
		pemKey = data
	}

	if cfg.GitHubInstallationID == 0 {
		return "", fmt.Errorf("%w: github_installation_id not configured", errCredentialsRequired)
	}

	signed, err := appJWT(cfg.GitHubAppID, pemKey)
	if err != nil {
		return "", err
	}

	appClient := github.NewClient(nil).WithAuthToken(signed)
	token, _, err := appClient.Apps.CreateInstallationToken(ctx, cfg.GitHubInstallationID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create installation token: %w", err)
	}
	return token.GetToken(), nil
}
