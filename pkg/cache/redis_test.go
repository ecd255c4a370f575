package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "dominest:calendar:2024-03", Key("calendar", "2024-03"))
	assert.Equal(t, "dominest:calendar", Key("calendar", " ", ""))
	assert.Equal(t, "dominest", Key())
}
