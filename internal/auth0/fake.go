package auth0

import "context"

// FakeClient serves canned userinfo responses so tests can provision
// riders without a live tenant.
type FakeClient struct {
	Users map[string]*UserInfo // keyed by access token
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Users: make(map[string]*UserInfo),
	}
}

func (c *FakeClient) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	if user, ok := c.Users[accessToken]; ok {
		return user, nil
	}
	return nil, ErrUserInfoFailed
}

// AddUser registers the userinfo the fake returns for accessToken.
func (c *FakeClient) AddUser(accessToken string, info *UserInfo) {
	c.Users[accessToken] = info
}
