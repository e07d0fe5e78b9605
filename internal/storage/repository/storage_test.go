package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/parking-allocator/internal/models"
)

func newEntry(userUID string, spaceID int, carID *int, recordedSlot int) models.AssignmentEntry {
	return models.AssignmentEntry{
		UserUID:      userUID,
		SpaceID:      spaceID,
		CarID:        carID,
		RecordedSlot: recordedSlot,
		AssignedAt:   time.Now().UTC(),
	}
}

// grantedSpace возвращает снимок места после выдачи одной единицы ёмкости.
func grantedSpace(t *testing.T, storage *Storage, spaceID int) models.ParkingSpace {
	sp, err := storage.GetSpace(context.Background(), spaceID)
	require.NoError(t, err)
	sp.CapacityRemaining--
	sp.IsAvailable = sp.CapacityRemaining > 0
	return *sp
}

// releasedSpace возвращает снимок места после возврата одной единицы ёмкости.
func releasedSpace(t *testing.T, storage *Storage, spaceID int) models.ParkingSpace {
	sp, err := storage.GetSpace(context.Background(), spaceID)
	require.NoError(t, err)
	sp.CapacityRemaining++
	sp.IsAvailable = true
	return *sp
}

func TestCreateAssignmentGrant_PairedWrite(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "grant@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "A-101", 2, 2)

	id, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 2),
		grantedSpace(t, storage, spaceID))
	require.NoError(t, err)
	require.NotZero(t, id)

	// Обе записи пары применились: строка закрепления и счётчик места.
	verify.VerifyAssignmentCount(t, spaceID, 1)
	verify.VerifySpaceCapacity(t, spaceID, 1, 2)

	got, err := storage.GetAssignment(ctx, id)
	require.NoError(t, err)
	require.Equal(t, userUID, got.UserUID)
	require.Equal(t, spaceID, got.SpaceID)
	require.Equal(t, 2, got.RecordedSlot)
	require.Nil(t, got.CarID)
}

func TestCreateAssignmentGrant_LastUnitFlipsAvailability(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "lastunit@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "A-102", 1, 1)

	_, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 1),
		grantedSpace(t, storage, spaceID))
	require.NoError(t, err)

	verify.VerifySpaceCapacity(t, spaceID, 0, 2)
}

func TestCreateAssignmentGrant_StaleVersionRollsBack(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "stale@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "B-201", 2, 2)

	stale := grantedSpace(t, storage, spaceID)
	stale.Version = 99

	_, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 2), stale)
	require.ErrorIs(t, err, models.ErrVersionConflict)

	// Откат полный: ни закрепления, ни изменения счётчика.
	verify.VerifyAssignmentCount(t, spaceID, 0)
	verify.VerifySpaceCapacity(t, spaceID, 2, 1)
}

func TestCreateAssignmentGrant_DuplicateCarRollsBack(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "dupcar@example.com", "hash", "user")
	carID := factory.CreateCar(t, "A123BC", userUID)
	firstSpace := factory.CreateSpace(t, "C-301", 1, 1)
	secondSpace := factory.CreateSpace(t, "C-302", 1, 1)

	_, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, firstSpace, &carID, 1),
		grantedSpace(t, storage, firstSpace))
	require.NoError(t, err)

	// Повторное закрепление того же автомобиля отсекается частичным
	// уникальным индексом, запись второго места при этом откатывается.
	_, err = storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, secondSpace, &carID, 1),
		grantedSpace(t, storage, secondSpace))
	require.ErrorIs(t, err, models.ErrCarAlreadyAssigned)

	verify.VerifyAssignmentCount(t, secondSpace, 0)
	verify.VerifySpaceCapacity(t, secondSpace, 1, 1)
}

func TestRemoveAssignmentRelease_RoundTrip(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "release@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "D-401", 1, 1)

	id, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 1),
		grantedSpace(t, storage, spaceID))
	require.NoError(t, err)
	verify.VerifySpaceCapacity(t, spaceID, 0, 2)

	count, err := storage.RemoveAssignmentRelease(ctx, id,
		releasedSpace(t, storage, spaceID))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	verify.VerifyAssignmentCount(t, spaceID, 0)
	verify.VerifySpaceCapacity(t, spaceID, 1, 3)
}

func TestRemoveAssignmentRelease_UnknownAssignmentRollsBack(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	spaceID := factory.CreateSpace(t, "D-402", 2, 1)

	_, err := storage.RemoveAssignmentRelease(ctx, 9999,
		releasedSpace(t, storage, spaceID))
	require.ErrorIs(t, err, models.ErrAssignmentNotFound)

	// Счётчик не должен вернуться без удалённой строки.
	verify.VerifySpaceCapacity(t, spaceID, 1, 1)
}

func TestUpdateAssignmentMove_TwoSpaces(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "move@example.com", "hash", "user")
	oldSpace := factory.CreateSpace(t, "E-501", 1, 1)
	newSpace := factory.CreateSpace(t, "E-502", 3, 3)

	id, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, oldSpace, nil, 1),
		grantedSpace(t, storage, oldSpace))
	require.NoError(t, err)

	moved := newEntry(userUID, newSpace, nil, 3)
	moved.ID = id
	count, err := storage.UpdateAssignmentMove(ctx, moved, []models.ParkingSpace{
		releasedSpace(t, storage, oldSpace),
		grantedSpace(t, storage, newSpace),
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	verify.VerifyAssignmentCount(t, oldSpace, 0)
	verify.VerifyAssignmentCount(t, newSpace, 1)
	verify.VerifySpaceCapacity(t, oldSpace, 1, 3)
	verify.VerifySpaceCapacity(t, newSpace, 2, 2)
}

func TestUpdateAssignmentMove_StaleTargetRollsBackBothSpaces(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "stalemove@example.com", "hash", "user")
	oldSpace := factory.CreateSpace(t, "E-503", 1, 1)
	newSpace := factory.CreateSpace(t, "E-504", 2, 2)

	id, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, oldSpace, nil, 1),
		grantedSpace(t, storage, oldSpace))
	require.NoError(t, err)

	staleTarget := grantedSpace(t, storage, newSpace)
	staleTarget.Version = 99

	moved := newEntry(userUID, newSpace, nil, 2)
	moved.ID = id
	_, err = storage.UpdateAssignmentMove(ctx, moved, []models.ParkingSpace{
		releasedSpace(t, storage, oldSpace),
		staleTarget,
	})
	require.ErrorIs(t, err, models.ErrVersionConflict)

	// Запись старого места тоже откатилась, закрепление осталось на месте.
	verify.VerifySpaceCapacity(t, oldSpace, 0, 2)
	verify.VerifySpaceCapacity(t, newSpace, 2, 1)
	verify.VerifyAssignmentCount(t, oldSpace, 1)
}

func TestCreateSpace_DuplicateNumber(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateSpace(t, "F-601", 1, 1)

	_, err := storage.CreateSpace(ctx, models.ParkingSpace{
		Number:            "F-601",
		FloorNumber:       1,
		CapacityMax:       1,
		CapacityRemaining: 1,
		IsAvailable:       true,
		Address:           "Test street 1",
		OpenTime:          "08:00",
		CloseTime:         "22:00",
	})
	field, ok := models.IsDuplicate(err)
	require.True(t, ok)
	require.Equal(t, "number", field)
}

func TestGetSpaceByNumber(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	spaceID := factory.CreateSpace(t, "F-602", 2, 2)

	sp, err := storage.GetSpaceByNumber(ctx, "F-602")
	require.NoError(t, err)
	require.Equal(t, spaceID, sp.ID)
	require.Equal(t, 2, sp.CapacityMax)

	_, err = storage.GetSpaceByNumber(ctx, "no-such-number")
	require.ErrorIs(t, err, models.ErrSpaceNotFound)
}

func TestListSpaces_AvailableFilter(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	factory.CreateSpace(t, "G-701", 1, 1)
	factory.CreateSpace(t, "G-702", 1, 0)
	factory.CreateSpace(t, "G-703", 2, 2)

	all, err := storage.ListSpaces(ctx, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	avail := true
	free, err := storage.ListSpaces(ctx, &avail, 100, 0)
	require.NoError(t, err)
	require.Len(t, free, 2)
	for _, sp := range free {
		require.True(t, sp.IsAvailable)
	}

	avail = false
	full, err := storage.ListSpaces(ctx, &avail, 100, 0)
	require.NoError(t, err)
	require.Len(t, full, 1)
	require.Equal(t, "G-702", full[0].Number)
}

func TestListAssignmentsByUser_JoinsSpaceSummary(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "joined@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "H-801", 2, 2)

	_, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 2),
		grantedSpace(t, storage, spaceID))
	require.NoError(t, err)

	list, err := storage.ListAssignmentsByUser(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "H-801", list[0].Space.Number)
	require.Equal(t, 2, list[0].RecordedSlot)
	require.Equal(t, "Test street 1", list[0].Space.Address)
}

func TestRemoveUser_WithAssignmentsRejected(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	userUID := factory.CreateUser(t, "busyuser@example.com", "hash", "user")
	spaceID := factory.CreateSpace(t, "I-901", 1, 1)

	id, err := storage.CreateAssignmentGrant(ctx,
		newEntry(userUID, spaceID, nil, 1),
		grantedSpace(t, storage, spaceID))
	require.NoError(t, err)

	_, err = storage.RemoveUser(ctx, userUID)
	require.ErrorIs(t, err, models.ErrUserHasAssignments)

	// После возврата места пользователь удаляется.
	_, err = storage.RemoveAssignmentRelease(ctx, id,
		releasedSpace(t, storage, spaceID))
	require.NoError(t, err)

	count, err := storage.RemoveUser(ctx, userUID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	user := models.User{
		Email:        "dup@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         "user",
	}
	_, err := storage.RegisterUser(ctx, user)
	require.NoError(t, err)

	_, err = storage.RegisterUser(ctx, user)
	field, ok := models.IsDuplicate(err)
	require.True(t, ok)
	require.Equal(t, "email", field)
}
