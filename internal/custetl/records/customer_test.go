package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValues_ColumnOrder(t *testing.T) {
	open := time.Date(2010, 10, 12, 0, 0, 0, 0, time.UTC)
	age := 36
	c := Customer{
		CustomerName: "Alex",
		CustomerID:   "C1",
		OpenDate:     &open,
		DoctorName:   NoDataProvided,
		Country:      "USA",
		IsActive:     "A",
		Age:          &age,
	}

	v := c.Values()
	assert.Len(t, v, len(Columns))
	assert.Equal(t, []any{
		"Alex", "C1", open, nil, nil, NoDataProvided, nil, "USA", nil, "A", 36, nil,
	}, v)
}

func TestValues_KeyFieldsNeverNil(t *testing.T) {
	v := Customer{}.Values()
	assert.Equal(t, "", v[0])
	assert.Equal(t, "", v[1])
	for _, x := range v[2:] {
		assert.Nil(t, x)
	}
}
