package sync

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrKind classifies a listener failure into the three classes the rest
// of the app distinguishes: permission problems always surface, connection
// problems are suppressed when cached data exists, everything else is
// treated like a connection problem for suppression purposes.
type ErrKind string

const (
	ErrNone       ErrKind = ""
	ErrPermission ErrKind = "permission"
	ErrConnection ErrKind = "connection"
	ErrOther      ErrKind = "other"
)

// Classify maps a listener error to its kind using the gRPC status code
// the Firestore client surfaces.
func Classify(err error) ErrKind {
	if err == nil {
		return ErrNone
	}
	switch status.Code(err) {
	case codes.PermissionDenied:
		return ErrPermission
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrConnection
	default:
		return ErrOther
	}
}
