package sync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrKind
	}{
		{"nil", nil, ErrNone},
		{"permission denied", status.Error(codes.PermissionDenied, "rules"), ErrPermission},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrConnection},
		{"deadline exceeded", status.Error(codes.DeadlineExceeded, "slow"), ErrConnection},
		{"internal", status.Error(codes.Internal, "boom"), ErrOther},
		{"plain error", errors.New("decode failed"), ErrOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}
