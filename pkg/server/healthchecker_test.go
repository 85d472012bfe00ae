package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedHealth bool

func (f fixedHealth) Healthy(context.Context) bool { return bool(f) }

func TestAllHealthy(t *testing.T) {
	ctx := context.Background()

	assert.True(t, AllHealthy{}.Healthy(ctx))
	assert.True(t, AllHealthy{NewOkHealthChecker(), fixedHealth(true)}.Healthy(ctx))
	assert.False(t, AllHealthy{NewOkHealthChecker(), fixedHealth(false)}.Healthy(ctx))
}
