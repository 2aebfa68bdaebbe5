package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/salaries/internal/logging"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
)

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := NewHealthServer("", logging.Nop{})
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)

	boom := errors.New("boom")
	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
