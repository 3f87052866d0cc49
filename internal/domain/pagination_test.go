package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequestLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PageRequest{}.Limit())
	assert.Equal(t, DefaultPageSize, PageRequest{PerPage: -1}.Limit())
	assert.Equal(t, 10, PageRequest{PerPage: 10}.Limit())
	assert.Equal(t, MaxPageSize, PageRequest{PerPage: 500}.Limit())
}

func TestPageRequestOffset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{}.Offset())
	assert.Equal(t, 0, PageRequest{Page: -3}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, PerPage: 10}.Offset())
	assert.Equal(t, MaxPageSize, PageRequest{Page: 2, PerPage: 500}.Offset())
}

func TestPageRequestMatches(t *testing.T) {
	p := &Principal{Name: "Ann Field", Login: "afield"}

	assert.True(t, PageRequest{}.Matches(p))
	assert.True(t, PageRequest{Query: "  "}.Matches(p))
	assert.True(t, PageRequest{Query: "ann"}.Matches(p))
	assert.True(t, PageRequest{Query: "FIELD"}.Matches(p))
	assert.True(t, PageRequest{Query: "afield"}.Matches(p))
	assert.False(t, PageRequest{Query: "bob"}.Matches(p))
}
