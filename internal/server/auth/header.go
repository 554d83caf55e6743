package auth

import (
	"strings"

	"github.com/dmitrijs2005/campusevents/internal/common"
)

// ExtractBearerToken pulls the token out of an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", common.ErrMissingAuthHeader
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", common.ErrMalformedAuthHeader
	}

	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	if token == "" {
		return "", common.ErrEmptyToken
	}
	return token, nil
}
