package twitchapi

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenURL is the Twitch endpoint for the client credentials grant.
const TokenURL = "https://id.twitch.tv/oauth2/token"

// Credentials identify the app to Helix. OAuthToken is a user token; when it is
// empty an app access token is fetched with ClientSecret.
type Credentials struct {
	ClientID     string
	ClientSecret string
	OAuthToken   string
}

// NewHTTPClient returns a client that sets the Authorization header on every request.
// App access tokens are cached and refreshed by the oauth2 token source. A *http.Client
// stored in ctx under oauth2.HTTPClient is used as the underlying transport.
func NewHTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	if creds.ClientID == "" {
		return nil, errors.New("missing client id for twitch helix")
	}
	if creds.OAuthToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.OAuthToken, TokenType: "Bearer"})
		return oauth2.NewClient(ctx, ts), nil
	}
	if creds.ClientSecret == "" {
		return nil, errors.New("missing oauth token or client secret for twitch helix")
	}
	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cc.Client(ctx), nil
}
