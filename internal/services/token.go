package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// tokenBytes gives 128 bits of entropy per capability token.
const tokenBytes = 16

func mintToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// linkBuilder forms the public URLs handed to parents:
// {baseURL}/{role-path}/{token}.
type linkBuilder struct {
	baseURL string
}

func newLinkBuilder(baseURL string) linkBuilder {
	return linkBuilder{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (b linkBuilder) manage(token string) string {
	return b.baseURL + "/manage/" + token
}

func (b linkBuilder) join(token string) string {
	return b.baseURL + "/join/" + token
}

func (b linkBuilder) edit(token string) string {
	return b.baseURL + "/edit/" + token
}
