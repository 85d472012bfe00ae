package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrim(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "5"}, SplitTrim(" 1, 2,,5 "))
	assert.Nil(t, SplitTrim(""))
	assert.Nil(t, SplitTrim(" , "))
}
