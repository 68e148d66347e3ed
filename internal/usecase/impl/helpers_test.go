package impl

import (
	"testing"

	domainerrors "blitzshop/internal/domain/errors"
	"blitzshop/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminActor builds an actor carrying the admin role.
func adminActor() service.Actor {
	return service.Actor{UserID: uuid.New(), Roles: []string{"admin"}}
}

// customerActor builds a plain customer actor.
func customerActor() service.Actor {
	return service.Actor{UserID: uuid.New(), Roles: []string{"customer"}}
}

// assertErrorCode asserts that err carries an application error with the
// given business error code somewhere in its chain.
func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an application error, got: %v", err)
	assert.Equal(t, code, appErr.ErrorCode())
}
