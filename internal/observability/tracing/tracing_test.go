package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitDisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Init(context.Background(), zap.NewNop(), "", "hr-dashboard", "test")

	assert.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
