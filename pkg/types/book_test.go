package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidISBN(t *testing.T) {
	assert.True(t, ValidISBN("9780132350884"))
	assert.False(t, ValidISBN("978013235088"))
	assert.False(t, ValidISBN("97801323508845"))
	assert.False(t, ValidISBN("978013235088X"))
	assert.False(t, ValidISBN(""))
}

func TestValidMemberID(t *testing.T) {
	assert.True(t, ValidMemberID("M1"))
	assert.True(t, ValidMemberID("M0042"))
	assert.False(t, ValidMemberID("M"))
	assert.False(t, ValidMemberID("X001"))
	assert.False(t, ValidMemberID("M00a"))
	assert.False(t, ValidMemberID("m001"))
}

func TestNewBook(t *testing.T) {
	b, err := NewBook(" Clean Code ", "Robert Martin", "9780132350884")
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", b.Title)
	assert.True(t, b.Available)
	assert.Equal(t, "[9780132350884] 'Clean Code' by Robert Martin - Available", b.String())

	_, err = NewBook("", "Robert Martin", "9780132350884")
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = NewBook("Clean Code", " ", "9780132350884")
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = NewBook("Clean Code", "Robert Martin", "123")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestNewMember(t *testing.T) {
	m, err := NewMember("Ada", "M001")
	require.NoError(t, err)
	assert.Equal(t, "M001", m.MemberID)
	assert.Empty(t, m.Borrowed)
	assert.NotNil(t, m.Borrowed)
	assert.False(t, m.Holds("9780132350884"))

	m.Borrowed = append(m.Borrowed, "9780132350884")
	assert.True(t, m.Holds("9780132350884"))

	_, err = NewMember("", "M001")
	assert.ErrorIs(t, err, ErrInvalidField)
	_, err = NewMember("Ada", "001")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestBookJSONRoundTrip(t *testing.T) {
	b, err := NewBook("Clean Code", "Robert Martin", "9780132350884")
	require.NoError(t, err)
	b.Available = false

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isbn":"9780132350884","title":"Clean Code","author":"Robert Martin","available":false}`, string(data))

	var back Book
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
	assert.NoError(t, back.Validate())
}

func TestMemberJSONRoundTrip(t *testing.T) {
	m, err := NewMember("Ada", "M001")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"member_id":"M001","name":"Ada","borrowed":[]}`, string(data))

	m.Borrowed = []string{"9780132350884", "9780201616224"}
	data, err = json.Marshal(m)
	require.NoError(t, err)

	var back Member
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
	assert.NoError(t, back.Validate())
}
