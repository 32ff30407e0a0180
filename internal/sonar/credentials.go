package sonar

import "net/http"

// Credentials is the resolved authentication mode for a client session.
// Exactly one of Token or Username/Password is set. Organization, when
// present, scopes every request on multi-tenant deployments.
type Credentials struct {
	Token        string
	Username     string
	Password     string
	Organization string
}

// ResolveCredentials validates the supplied authentication material and
// produces an immutable Credentials value. A bearer token and a
// username/password pair are mutually exclusive; supplying neither, both, or
// half a pair is a configuration error.
func ResolveCredentials(token, username, password, organization string) (Credentials, error) {
	hasToken := token != ""
	hasBasic := username != "" || password != ""

	switch {
	case hasToken && hasBasic:
		return Credentials{}, newError(KindConfiguration,
			"both a token and username/password were supplied; configure exactly one")
	case hasToken:
		return Credentials{Token: token, Organization: organization}, nil
	case username != "" && password != "":
		return Credentials{Username: username, Password: password, Organization: organization}, nil
	case hasBasic:
		return Credentials{}, newError(KindConfiguration,
			"username and password must be supplied together")
	default:
		return Credentials{}, newError(KindConfiguration,
			"no credentials configured: set a token or a username/password pair")
	}
}

// apply injects the authentication header onto an outgoing request.
func (c Credentials) apply(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
		return
	}
	req.SetBasicAuth(c.Username, c.Password)
}
