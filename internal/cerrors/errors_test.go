package cerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	underlying := errors.New("too many tokens")
	err := NewParseError("/proj/a.ember", underlying)

	assert.Equal(t, ErrorTypeParse, err.Type)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "parse failed for /proj/a.ember: too many tokens", err.Error())
	assert.False(t, err.Timestamp.IsZero())
}

func TestDriverError(t *testing.T) {
	underlying := errors.New("watcher closed")
	err := NewDriverError("watch", underlying)

	assert.Equal(t, ErrorTypeDriver, err.Type)
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "driver watch failed: watcher closed", err.Error())
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("must be positive")
	err := NewConfigError("driver.parallel_file_workers", "-1", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "config error for field driver.parallel_file_workers (value -1): must be positive", err.Error())

	noValue := NewConfigError("project.root", "", underlying)
	assert.Equal(t, "config error for field project.root: must be positive", noValue.Error())
}

func TestFileError(t *testing.T) {
	underlying := errors.New("permission denied")
	err := NewFileError("read", "/proj/a.ember", underlying)

	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, "file read failed for /proj/a.ember: permission denied", err.Error())
}

func TestMultiError(t *testing.T) {
	e1 := errors.New("e1")
	e2 := errors.New("e2")

	assert.Equal(t, "no errors", NewMultiError(nil).Error())
	assert.Equal(t, "e1", NewMultiError([]error{e1}).Error())

	multi := NewMultiError([]error{e1, nil, e2})
	assert.Len(t, multi.Errors, 2)
	assert.Contains(t, multi.Error(), "2 errors")
}

func TestSuggestKeyword(t *testing.T) {
	assert.Equal(t, "class", SuggestKeyword("clas", 2))
	assert.Equal(t, "return", SuggestKeyword("retrun", 2))
	assert.Equal(t, "", SuggestKeyword("xyzzyplugh", 2))
}
