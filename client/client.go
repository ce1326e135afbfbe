// Package client constructs the Linode API client used to provision
// benchmark hosts.
package client

import (
	"context"

	"github.com/linode/linodego"
	"golang.org/x/oauth2"
)

// Linode builds an API client authenticated with a personal access token.
func Linode(ctx context.Context, token string) linodego.Client {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	oauth2Client := oauth2.NewClient(ctx, tokenSource)

	return linodego.NewClient(oauth2Client)
}
