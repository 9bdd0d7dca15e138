package integrations

import (
	stderrors "errors"

	"github.com/matzehuels/cratesio/pkg/errors"
)

func asError(err error, target **errors.Error) bool { return stderrors.As(err, target) }

func stdIs(err, target error) bool { return stderrors.Is(err, target) }
