package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := New(ctx, WithAddress("127.0.0.1:1"), WithKeyPrefix("test:"))

	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestOptions(t *testing.T) {
	o := &Options{}
	for _, opt := range []Option{
		WithAddress("cache:6380"),
		WithPassword("secret"),
		WithDB(3),
		WithKeyPrefix("fb:"),
	} {
		opt(o)
	}

	assert.Equal(t, Options{Address: "cache:6380", Password: "secret", DB: 3, KeyPrefix: "fb:"}, *o)
}
