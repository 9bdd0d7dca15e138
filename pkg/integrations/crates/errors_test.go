package crates

import (
	stderrors "errors"
	"testing"

	"github.com/matzehuels/cratesio/pkg/errors"
)

func asError(t *testing.T, err error) *errors.Error {
	t.Helper()
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error %v (%T) is not an *errors.Error", err, err)
	}
	return e
}
