package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desktopApp() *OAuthApp {
	return &OAuthApp{
		ClientID:                "test-client-id.apps.googleusercontent.com",
		ProjectID:               "test-project",
		AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
		TokenURI:                "https://oauth2.googleapis.com/token",
		AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
		ClientSecret:            "test-secret",
		RedirectURIs:            []string{"http://localhost"},
	}
}

func TestValidateOAuthClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func() *OAuthClientConfig
		wantErr bool
	}{
		{
			name: "installed client",
			cfg:  func() *OAuthClientConfig { return &OAuthClientConfig{Installed: desktopApp()} },
		},
		{
			name: "web client",
			cfg:  func() *OAuthClientConfig { return &OAuthClientConfig{Web: desktopApp()} },
		},
		{
			name:    "neither section",
			cfg:     func() *OAuthClientConfig { return &OAuthClientConfig{} },
			wantErr: true,
		},
		{
			name:    "both sections",
			cfg:     func() *OAuthClientConfig { return &OAuthClientConfig{Installed: desktopApp(), Web: desktopApp()} },
			wantErr: true,
		},
		{
			name: "missing client id",
			cfg: func() *OAuthClientConfig {
				app := desktopApp()
				app.ClientID = ""
				return &OAuthClientConfig{Installed: app}
			},
			wantErr: true,
		},
		{
			name: "invalid auth url",
			cfg: func() *OAuthClientConfig {
				app := desktopApp()
				app.AuthURI = "not-a-valid-url"
				return &OAuthClientConfig{Installed: app}
			},
			wantErr: true,
		},
		{
			name: "empty redirect uris",
			cfg: func() *OAuthClientConfig {
				app := desktopApp()
				app.RedirectURIs = []string{}
				return &OAuthClientConfig{Installed: app}
			},
			wantErr: true,
		},
		{
			name: "invalid redirect uri",
			cfg: func() *OAuthClientConfig {
				app := desktopApp()
				app.RedirectURIs = []string{"not a valid uri"}
				return &OAuthClientConfig{Installed: app}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOAuthClient(tt.cfg())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "validation failed")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOAuthClientConfig_App(t *testing.T) {
	web := desktopApp()
	assert.Same(t, web, (&OAuthClientConfig{Web: web}).App())

	installed := desktopApp()
	assert.Same(t, installed, (&OAuthClientConfig{Installed: installed}).App())
}

func TestLoadOAuthClientFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "oauthClient.json")

	validOAuth := `{
  "installed": {
    "client_id": "test-client-id.apps.googleusercontent.com",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"]
  }
}`

	err := os.WriteFile(oauthPath, []byte(validOAuth), 0644)
	require.NoError(t, err)

	cfg, err := LoadOAuthClientFromPath(oauthPath)
	require.NoError(t, err)

	require.NotNil(t, cfg.Installed)
	assert.Nil(t, cfg.Web)
	assert.Equal(t, "test-client-id.apps.googleusercontent.com", cfg.App().ClientID)
	assert.Equal(t, "https://oauth2.googleapis.com/token", cfg.App().TokenURI)
	assert.Equal(t, []string{"http://localhost"}, cfg.App().RedirectURIs)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, "invalid_oauth.json")

	invalidJSON := `{
  "installed": {
    "client_id": "test"
    "project_id": "missing comma"
  }
}`

	err := os.WriteFile(oauthPath, []byte(invalidJSON), 0644)
	require.NoError(t, err)

	_, err = LoadOAuthClientFromPath(oauthPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oauth client file")
}

func TestLoadOAuthClientFromPath_FileNotFound(t *testing.T) {
	_, err := LoadOAuthClientFromPath("/nonexistent/path/oauthClient.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read oauth client file")
}

func TestLoadOAuthClientWithEnv_FindsFileInCwd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	data := `{"web": {
    "client_id": "web-client",
    "project_id": "test-project",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost:3000/oauth/callback"]
  }}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oauthClient.test.json"), []byte(data), 0644))

	cfg, err := LoadOAuthClientWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "web-client", cfg.App().ClientID)
}
