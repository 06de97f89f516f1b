// Package rmtoken removes the GitHub access token from the keyring.
package rmtoken

import (
	"fmt"
)

type Controller struct {
	param        *Param
	tokenManager TokenManager
}

func New(param *Param, tokenManager TokenManager) *Controller {
	return &Controller{
		param:        param,
		tokenManager: tokenManager,
	}
}

type Param struct{}

type TokenManager interface {
	RemoveToken() error
}

func (c *Controller) Remove() error {
	if err := c.tokenManager.RemoveToken(); err != nil {
		return fmt.Errorf("remove a GitHub access token from the keyring: %w", err)
	}
	return nil
}
