package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSequenceNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "P-00001"},
		{"after highest", []string{"P-00007", "P-01002", "P-00100"}, "P-01003"},
		{"ignores malformed", []string{"P-abc", "X-00009", "P-00002"}, "P-00003"},
		{"grows past width", []string{"P-99999"}, "P-100000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextSequenceNumber(patientNumberPrefix, tt.existing))
		})
	}
}

func TestUsernameBase(t *testing.T) {
	assert.Equal(t, "maria.delacruz", usernameBase("Maria", "dela Cruz"))
	assert.Equal(t, "jose", usernameBase("  Jose!", ""))
	assert.Equal(t, "user", usernameBase("", "---"))
	assert.Len(t, usernameBase("aaaaaaaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbbbbbbb"), maxUsernameBase)
}

func TestUniqueUsername(t *testing.T) {
	assert.Equal(t, "ana.cruz", uniqueUsername("ana.cruz", []string{"ana.cruzado"}))
	assert.Equal(t, "ana.cruz2", uniqueUsername("ana.cruz", []string{"ana.cruz"}))
	assert.Equal(t, "ana.cruz4", uniqueUsername("ana.cruz", []string{"Ana.Cruz", "ana.cruz2", "ana.cruz3"}))
}

func TestParseRoomNumber(t *testing.T) {
	n, ok := parseRoomNumber("Room 101 - ICU")
	assert.True(t, ok)
	assert.Equal(t, 101, n)

	n, ok = parseRoomNumber("202")
	assert.True(t, ok)
	assert.Equal(t, 202, n)

	_, ok = parseRoomNumber("ICU")
	assert.False(t, ok)
}
