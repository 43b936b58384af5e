package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageWrapsAndUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("search funnels: %w", Storage("count funnels", cause))

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "count funnels", storageErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Storage("noop", nil))
}

func TestFormatErrorMessage(t *testing.T) {
	err := &FormatError{Err: errors.New("unexpected end of JSON input")}
	assert.Equal(t, "invalid settings format: unexpected end of JSON input", err.Error())
}
