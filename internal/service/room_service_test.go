package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomService(env *testEnv) *RoomService {
	return NewRoomService(env.store.Rooms, env.store.Departments, env.store.Audit)
}

func TestRoomService_ListRoomsWithOccupancy(t *testing.T) {
	env := setupWorkflow(t, true)
	env.admit(t, "Pat", "One", "201")
	rooms := newRoomService(env)

	views, err := rooms.ListRooms()
	require.NoError(t, err)
	require.NotEmpty(t, views)

	byNumber := map[int]RoomView{}
	for _, v := range views {
		byNumber[v.Number] = v
	}
	private := byNumber[201]
	assert.Equal(t, int64(1), private.Occupants)
	assert.False(t, private.Available)
	assert.Equal(t, "Room 201 - Private", private.Display)
	assert.True(t, byNumber[101].Available)
}

func TestRoomService_CreateRoom(t *testing.T) {
	env := setupWorkflow(t, true)
	rooms := newRoomService(env)

	room, err := rooms.CreateRoom(CreateRoomRequest{Number: 401, Type: " ICU ", Capacity: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, "ICU", room.Type)

	_, err = rooms.CreateRoom(CreateRoomRequest{Number: 401, Type: "Ward", Capacity: 4}, 0)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = rooms.CreateRoom(CreateRoomRequest{Number: 402, Type: "Ward", Capacity: 0}, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoomService_Departments(t *testing.T) {
	env := setupWorkflow(t, true)
	rooms := newRoomService(env)

	departments, err := rooms.ListDepartments()
	require.NoError(t, err)
	assert.Len(t, departments, 4)
	assert.Equal(t, "Emergency", departments[0].Name)

	_, err = rooms.CreateDepartment("Cardiology", "Heart", 0)
	require.NoError(t, err)
	_, err = rooms.CreateDepartment("Surgery", "", 0)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = rooms.CreateDepartment("  ", "", 0)
	assert.ErrorIs(t, err, ErrValidation)
}
