package rmtoken_test

import (
	"errors"
	"testing"

	"github.com/lawlink-oss/refcheck/pkg/controller/rmtoken"
)

type fakeTokenManager struct {
	err     error
	removed bool
}

func (m *fakeTokenManager) RemoveToken() error {
	if m.err != nil {
		return m.err
	}
	m.removed = true
	return nil
}

func TestController_Remove(t *testing.T) {
	t.Parallel()
	errNotFound := errors.New("secret not found in keyring")
	data := []struct {
		name  string
		err   error
		isErr bool
	}{
		{name: "removed"},
		{name: "keyring error", err: errNotFound, isErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			tm := &fakeTokenManager{err: d.err}
			err := rmtoken.New(&rmtoken.Param{}, tm).Remove()
			if err != nil {
				if !d.isErr {
					t.Fatal(err)
				}
				if !errors.Is(err, errNotFound) {
					t.Errorf("the keyring error must be wrapped: %v", err)
				}
				return
			}
			if d.isErr {
				t.Fatal("error must be returned")
			}
			if !tm.removed {
				t.Error("the token must be removed")
			}
		})
	}
}
