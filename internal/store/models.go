package store

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time `json:"created_at"`
}

// Level is a self-reported 0-5 rating. LevelUnset (zero) means the user left
// the field blank; unset values must be excluded from averages, never counted
// as a literal zero severity.
type Level int

const LevelUnset Level = 0

func (l Level) IsSet() bool {
	return l != LevelUnset
}

// Condition is a chronic condition the user tracks (eczema, migraine, ...).
type Condition struct {
	ID          string    `json:"id"` // Using UUID for external ID
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"` // Nullable
	CreatedAt   time.Time `json:"created_at"`
}

type Medication struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    *string   `json:"dosage"` // Nullable
	CreatedAt time.Time `json:"created_at"`
}

// ConditionEntry is one condition's state within a daily check-in.
type ConditionEntry struct {
	ConditionID string   `json:"condition_id"`
	Severity    Level    `json:"severity"`
	Symptoms    []string `json:"symptoms,omitempty"`
}

// MedicationEntry records whether a medication was taken that day.
type MedicationEntry struct {
	MedicationID string `json:"medication_id"`
	Taken        bool   `json:"taken"`
}

// Factors holds the day's lifestyle and environment self-reports.
type Factors struct {
	Stress  Level  `json:"stress"`
	Sleep   Level  `json:"sleep"`
	Diet    Level  `json:"diet"`
	Water   Level  `json:"water"`
	Weather string `json:"weather,omitempty"`
}

// CheckIn is one day's self-reported record. One per user per calendar day.
type CheckIn struct {
	ID                string            `json:"id"` // Using UUID for external ID
	UserID            int64             `json:"user_id"`
	Date              string            `json:"date"` // "2025-02-20"
	ConditionEntries  []ConditionEntry  `json:"condition_entries"`
	MedicationEntries []MedicationEntry `json:"medication_entries"`
	Factors           Factors           `json:"factors"`
	Notes             *string           `json:"notes"` // Nullable
	CreatedAt         time.Time         `json:"created_at"`
}

// EntryFor returns the check-in's entry for a condition, or nil.
func (c *CheckIn) EntryFor(conditionID string) *ConditionEntry {
	for i := range c.ConditionEntries {
		if c.ConditionEntries[i].ConditionID == conditionID {
			return &c.ConditionEntries[i]
		}
	}
	return nil
}

// AnyMedicationTaken reports whether at least one medication was marked taken.
func (c *CheckIn) AnyMedicationTaken() bool {
	for _, m := range c.MedicationEntries {
		if m.Taken {
			return true
		}
	}
	return false
}
