package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	missing, err := s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice@example.com", user.Email)

	found, err := s.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	_, err = s.CreateUser("alice@example.com", "hashed")
	assert.Error(t, err, "duplicate email must be rejected")
}

func TestConditionLifecycle(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)

	desc := "itchy patches"
	cond, err := s.CreateCondition(user.ID, "Eczema", &desc)
	require.NoError(t, err)
	require.NotNil(t, cond)
	assert.NotEmpty(t, cond.ID)

	conditions, err := s.GetConditionsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, conditions, 1)
	require.NotNil(t, conditions[0].Description)
	assert.Equal(t, "itchy patches", *conditions[0].Description)

	// Ownership is enforced on lookup and delete.
	other, err := s.CreateUser("bob@example.com", "hashed")
	require.NoError(t, err)
	notFound, err := s.GetConditionByID(cond.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, notFound)
	assert.Error(t, s.DeleteCondition(cond.ID, other.ID))

	require.NoError(t, s.DeleteCondition(cond.ID, user.ID))
	conditions, err = s.GetConditionsByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, conditions)
}

func TestMedicationLifecycle(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)

	med, err := s.CreateMedication(user.ID, "Antihistamine", nil)
	require.NoError(t, err)

	medications, err := s.GetMedicationsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, medications, 1)
	assert.Equal(t, "Antihistamine", medications[0].Name)
	assert.Nil(t, medications[0].Dosage)

	require.NoError(t, s.DeleteMedication(med.ID, user.ID))
	assert.Error(t, s.DeleteMedication(med.ID, user.ID))
}

func TestCheckInUpsertAndLoad(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)
	cond, err := s.CreateCondition(user.ID, "Eczema", nil)
	require.NoError(t, err)
	med, err := s.CreateMedication(user.ID, "Antihistamine", nil)
	require.NoError(t, err)

	checkIn := CheckIn{
		UserID: user.ID,
		Date:   "2025-03-01",
		ConditionEntries: []ConditionEntry{
			{ConditionID: cond.ID, Severity: 4, Symptoms: []string{"itching", "redness"}},
		},
		MedicationEntries: []MedicationEntry{
			{MedicationID: med.ID, Taken: true},
		},
		Factors: Factors{Stress: 5, Sleep: 2, Weather: "Humid"},
	}
	require.NoError(t, s.UpsertCheckIn(&checkIn))
	assert.NotEmpty(t, checkIn.ID)

	loaded, err := s.GetCheckInByDate(user.ID, "2025-03-01")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, checkIn.ID, loaded.ID)
	assert.Equal(t, Level(5), loaded.Factors.Stress)
	assert.Equal(t, "Humid", loaded.Factors.Weather)
	require.Len(t, loaded.ConditionEntries, 1)
	assert.Equal(t, Level(4), loaded.ConditionEntries[0].Severity)
	assert.Equal(t, []string{"itching", "redness"}, loaded.ConditionEntries[0].Symptoms)
	require.Len(t, loaded.MedicationEntries, 1)
	assert.True(t, loaded.MedicationEntries[0].Taken)
}

// Upserting the same date replaces the day's entries wholesale instead of
// accumulating them.
func TestCheckInUpsertReplacesEntries(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)
	cond, err := s.CreateCondition(user.ID, "Eczema", nil)
	require.NoError(t, err)

	first := CheckIn{
		UserID:           user.ID,
		Date:             "2025-03-01",
		ConditionEntries: []ConditionEntry{{ConditionID: cond.ID, Severity: 4}},
		Factors:          Factors{Stress: 5},
	}
	require.NoError(t, s.UpsertCheckIn(&first))

	second := CheckIn{
		UserID:           user.ID,
		Date:             "2025-03-01",
		ConditionEntries: []ConditionEntry{{ConditionID: cond.ID, Severity: 2}},
		Factors:          Factors{Stress: 1},
	}
	require.NoError(t, s.UpsertCheckIn(&second))
	assert.Equal(t, first.ID, second.ID, "same day must reuse the check-in id")

	checkIns, err := s.GetCheckInsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, checkIns, 1)
	require.Len(t, checkIns[0].ConditionEntries, 1)
	assert.Equal(t, Level(2), checkIns[0].ConditionEntries[0].Severity)
	assert.Equal(t, Level(1), checkIns[0].Factors.Stress)
}

func TestGetCheckInsOrderedByDate(t *testing.T) {
	s := newTestStore(t)
	user, err := s.CreateUser("alice@example.com", "hashed")
	require.NoError(t, err)

	for _, date := range []string{"2025-03-03", "2025-03-01", "2025-03-02"} {
		checkIn := CheckIn{UserID: user.ID, Date: date}
		require.NoError(t, s.UpsertCheckIn(&checkIn))
	}

	checkIns, err := s.GetCheckInsByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, checkIns, 3)
	assert.Equal(t, "2025-03-01", checkIns[0].Date)
	assert.Equal(t, "2025-03-02", checkIns[1].Date)
	assert.Equal(t, "2025-03-03", checkIns[2].Date)
}
