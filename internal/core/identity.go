package core

import (
	"net/url"

	"github.com/dkeye/botsocket/pkg/domain"
)

// UserIDParam is the handshake query parameter carrying the caller's user id.
const UserIDParam = "botmasterUserId"

// ResolveGroupKey derives the group of a connection from its handshake URL.
// It falls back to the connection id when the parameter is absent or empty.
func ResolveGroupKey(u *url.URL, id ConnID) domain.GroupKey {
	if u != nil {
		if v := u.Query().Get(UserIDParam); v != "" {
			return domain.GroupKey(v)
		}
	}
	return domain.GroupKey(id)
}
