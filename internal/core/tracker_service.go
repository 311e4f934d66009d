package core

import (
	"fmt"

	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

// TrackerService orchestrates the CRUD side of the tracker: users,
// conditions, medications, and daily check-ins.
type TrackerService struct {
	dbStore *store.SQLiteStore
}

func NewTrackerService(db *store.SQLiteStore) *TrackerService {
	return &TrackerService{dbStore: db}
}

func (s *TrackerService) GetUserByEmail(email string) (*store.User, error) {
	return s.dbStore.GetUserByEmail(email)
}

func (s *TrackerService) CreateUser(email, passwordHash string) (*store.User, error) {
	existing, err := s.dbStore.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user already exists")
	}
	return s.dbStore.CreateUser(email, passwordHash)
}

// Condition management

func (s *TrackerService) CreateCondition(userID int64, name string, description *string) (*store.Condition, error) {
	return s.dbStore.CreateCondition(userID, name, description)
}

func (s *TrackerService) GetConditions(userID int64) ([]store.Condition, error) {
	return s.dbStore.GetConditionsByUserID(userID)
}

func (s *TrackerService) GetCondition(conditionID string, userID int64) (*store.Condition, error) {
	return s.dbStore.GetConditionByID(conditionID, userID)
}

func (s *TrackerService) DeleteCondition(conditionID string, userID int64) error {
	return s.dbStore.DeleteCondition(conditionID, userID)
}

// Medication management

func (s *TrackerService) CreateMedication(userID int64, name string, dosage *string) (*store.Medication, error) {
	return s.dbStore.CreateMedication(userID, name, dosage)
}

func (s *TrackerService) GetMedications(userID int64) ([]store.Medication, error) {
	return s.dbStore.GetMedicationsByUserID(userID)
}

func (s *TrackerService) DeleteMedication(medicationID string, userID int64) error {
	return s.dbStore.DeleteMedication(medicationID, userID)
}

// Check-in management

// SaveCheckIn validates and upserts the check-in for (user, date). Severity
// and factor values outside 0-5 are rejected here, at the entry layer, so the
// insights engine never has to validate them. Entries referencing conditions
// or medications the user does not own are rejected as well.
func (s *TrackerService) SaveCheckIn(checkIn *store.CheckIn) error {
	if err := validateCheckIn(checkIn); err != nil {
		return err
	}

	conditions, err := s.dbStore.GetConditionsByUserID(checkIn.UserID)
	if err != nil {
		return err
	}
	knownConditions := make(map[string]bool, len(conditions))
	for _, c := range conditions {
		knownConditions[c.ID] = true
	}
	for _, entry := range checkIn.ConditionEntries {
		if !knownConditions[entry.ConditionID] {
			return fmt.Errorf("unknown condition %s", entry.ConditionID)
		}
	}

	medications, err := s.dbStore.GetMedicationsByUserID(checkIn.UserID)
	if err != nil {
		return err
	}
	knownMedications := make(map[string]bool, len(medications))
	for _, m := range medications {
		knownMedications[m.ID] = true
	}
	for _, entry := range checkIn.MedicationEntries {
		if !knownMedications[entry.MedicationID] {
			return fmt.Errorf("unknown medication %s", entry.MedicationID)
		}
	}

	return s.dbStore.UpsertCheckIn(checkIn)
}

func (s *TrackerService) GetCheckIns(userID int64) ([]store.CheckIn, error) {
	return s.dbStore.GetCheckInsByUserID(userID)
}

func (s *TrackerService) GetCheckInByDate(userID int64, date string) (*store.CheckIn, error) {
	return s.dbStore.GetCheckInByDate(userID, date)
}

func validateCheckIn(checkIn *store.CheckIn) error {
	for _, entry := range checkIn.ConditionEntries {
		if entry.Severity < 0 || entry.Severity > 5 {
			return fmt.Errorf("severity must be between 0 and 5, got %d", entry.Severity)
		}
	}
	for _, level := range []store.Level{
		checkIn.Factors.Stress,
		checkIn.Factors.Sleep,
		checkIn.Factors.Diet,
		checkIn.Factors.Water,
	} {
		if level < 0 || level > 5 {
			return fmt.Errorf("factor levels must be between 0 and 5, got %d", level)
		}
	}
	return nil
}
