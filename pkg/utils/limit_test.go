package utils_test

import (
	"strings"
	"testing"

	"github.com/AmonKats-dev/action-log-app/pkg/utils"
	"github.com/m-mizutani/gt"
)

func TestReadAllLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		b, err := utils.ReadAllLimit(strings.NewReader("hello"), 5)
		gt.NoError(t, err).Required()
		gt.Value(t, string(b)).Equal("hello")
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := utils.ReadAllLimit(strings.NewReader("hello!"), 5)
		gt.Error(t, err).Is(utils.ErrTooLarge)
	})
}
