package github

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// The token is stored under this service and user in the OS keyring,
// so that it's shared by every checkout of the reference data repository.
const (
	keyService = "lawlink-oss/refcheck"
	keyUser    = "github-issues"
)

var errEmptyToken = errors.New("the GitHub access token in the keyring is empty")

// TokenManager stores the GitHub access token used to file review issues.
type TokenManager struct{}

func NewTokenManager() *TokenManager {
	return &TokenManager{}
}

// GetToken returns the stored token. A blank token is an error, so that a
// broken entry fails before an API call is made.
func (tm *TokenManager) GetToken() (string, error) {
	s, err := keyring.Get(keyService, keyUser)
	if err != nil {
		return "", fmt.Errorf("get the GitHub access token from the keyring: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyToken
	}
	return s, nil
}

func (tm *TokenManager) SetToken(token string) error {
	if err := keyring.Set(keyService, keyUser, token); err != nil {
		return fmt.Errorf("store the GitHub access token in the keyring: %w", err)
	}
	return nil
}

func (tm *TokenManager) RemoveToken() error {
	if err := keyring.Delete(keyService, keyUser); err != nil {
		return fmt.Errorf("delete the GitHub access token from the keyring: %w", err)
	}
	return nil
}

// KeyringTokenSource is an oauth2.TokenSource reading the token from the
// keyring once and reusing it for the following requests.
type KeyringTokenSource struct {
	tm    *TokenManager
	logE  *logrus.Entry
	mu    sync.Mutex
	token *oauth2.Token
}

func NewKeyringTokenSource(logE *logrus.Entry, tm *TokenManager) *KeyringTokenSource {
	return &KeyringTokenSource{
		tm:   tm,
		logE: logE,
	}
}

func (ks *KeyringTokenSource) Token() (*oauth2.Token, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	if ks.token != nil {
		return ks.token, nil
	}
	ks.logE.Debug("reading the GitHub access token from the keyring")
	s, err := ks.tm.GetToken()
	if err != nil {
		return nil, err
	}
	ks.token = &oauth2.Token{
		AccessToken: s,
	}
	return ks.token, nil
}
