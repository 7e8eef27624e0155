package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCopiesRemainder(t *testing.T) {
	c := Cart{
		{BarbershopID: 1, ServiceID: 10, Price: 20},
		{BarbershopID: 1, ServiceID: 11, Price: 15},
		{BarbershopID: 2, ServiceID: 12, Price: 30},
	}

	rest := c.From(1)
	assert.Equal(t, Cart{c[1], c[2]}, rest)

	rest[0].Price = 99
	assert.Equal(t, 15.0, c[1].Price)

	assert.Empty(t, c.From(3))
	assert.Empty(t, c.From(10))
}
