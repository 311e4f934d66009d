package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer, and a lone pooled connection also keeps
	// an in-memory database coherent across queries.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS conditions (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        description TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS medications (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        dosage TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS check_ins (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        date TEXT NOT NULL, -- "YYYY-MM-DD", one check-in per user per day
        stress INTEGER NOT NULL DEFAULT 0,
        sleep INTEGER NOT NULL DEFAULT 0,
        diet INTEGER NOT NULL DEFAULT 0,
        water INTEGER NOT NULL DEFAULT 0,
        weather TEXT NOT NULL DEFAULT '',
        notes TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        UNIQUE (user_id, date),
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS condition_entries (
        check_in_id TEXT NOT NULL,
        condition_id TEXT NOT NULL,
        severity INTEGER NOT NULL DEFAULT 0, -- 0 means unrated
        symptoms_json TEXT, -- Storing as JSON string of []string
        PRIMARY KEY (check_in_id, condition_id),
        FOREIGN KEY (check_in_id) REFERENCES check_ins (id),
        FOREIGN KEY (condition_id) REFERENCES conditions (id)
    );

    CREATE TABLE IF NOT EXISTS medication_entries (
        check_in_id TEXT NOT NULL,
        medication_id TEXT NOT NULL,
        taken BOOLEAN NOT NULL DEFAULT FALSE,
        PRIMARY KEY (check_in_id, medication_id),
        FOREIGN KEY (check_in_id) REFERENCES check_ins (id),
        FOREIGN KEY (medication_id) REFERENCES medications (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(email, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (email, password_hash) VALUES (?, ?)", email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Condition methods

func (s *SQLiteStore) CreateCondition(userID int64, name string, description *string) (*Condition, error) {
	conditionID := uuid.NewString()
	now := time.Now()
	_, err := s.db.Exec("INSERT INTO conditions (id, user_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)",
		conditionID, userID, name, description, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert condition: %w", err)
	}
	return &Condition{ID: conditionID, UserID: userID, Name: name, Description: description, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetConditionByID(conditionID string, userID int64) (*Condition, error) {
	var cond Condition
	var description sql.NullString
	err := s.db.QueryRow("SELECT id, user_id, name, description, created_at FROM conditions WHERE id = ? AND user_id = ?",
		conditionID, userID).Scan(&cond.ID, &cond.UserID, &cond.Name, &description, &cond.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get condition: %w", err)
	}
	if description.Valid {
		cond.Description = &description.String
	}
	return &cond, nil
}

func (s *SQLiteStore) GetConditionsByUserID(userID int64) ([]Condition, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, description, created_at FROM conditions WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conditions: %w", err)
	}
	defer rows.Close()

	var conditions []Condition
	for rows.Next() {
		var cond Condition
		var description sql.NullString
		if err := rows.Scan(&cond.ID, &cond.UserID, &cond.Name, &description, &cond.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan condition row: %w", err)
		}
		if description.Valid {
			cond.Description = &description.String
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func (s *SQLiteStore) DeleteCondition(conditionID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM conditions WHERE id = ? AND user_id = ?", conditionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete condition: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("condition not found or not owned by user")
	}
	return nil
}

// Medication methods

func (s *SQLiteStore) CreateMedication(userID int64, name string, dosage *string) (*Medication, error) {
	medicationID := uuid.NewString()
	now := time.Now()
	_, err := s.db.Exec("INSERT INTO medications (id, user_id, name, dosage, created_at) VALUES (?, ?, ?, ?, ?)",
		medicationID, userID, name, dosage, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert medication: %w", err)
	}
	return &Medication{ID: medicationID, UserID: userID, Name: name, Dosage: dosage, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetMedicationsByUserID(userID int64) ([]Medication, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, dosage, created_at FROM medications WHERE user_id = ? ORDER BY created_at ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	var medications []Medication
	for rows.Next() {
		var med Medication
		var dosage sql.NullString
		if err := rows.Scan(&med.ID, &med.UserID, &med.Name, &dosage, &med.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medication row: %w", err)
		}
		if dosage.Valid {
			med.Dosage = &dosage.String
		}
		medications = append(medications, med)
	}
	return medications, nil
}

func (s *SQLiteStore) DeleteMedication(medicationID string, userID int64) error {
	res, err := s.db.Exec("DELETE FROM medications WHERE id = ? AND user_id = ?", medicationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("medication not found or not owned by user")
	}
	return nil
}

// Check-in methods

// UpsertCheckIn creates or replaces the check-in for (user, date). Replacing
// rewrites the day's condition and medication entries in one transaction so a
// partial write can never leave a day with mixed old and new entries.
func (s *SQLiteStore) UpsertCheckIn(checkIn *CheckIn) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRow("SELECT id FROM check_ins WHERE user_id = ? AND date = ?", checkIn.UserID, checkIn.Date).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		checkIn.ID = uuid.NewString()
		checkIn.CreatedAt = time.Now()
		_, err = tx.Exec(`INSERT INTO check_ins (id, user_id, date, stress, sleep, diet, water, weather, notes, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			checkIn.ID, checkIn.UserID, checkIn.Date,
			checkIn.Factors.Stress, checkIn.Factors.Sleep, checkIn.Factors.Diet, checkIn.Factors.Water,
			checkIn.Factors.Weather, checkIn.Notes, checkIn.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert check-in: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up check-in: %w", err)
	default:
		checkIn.ID = existingID
		_, err = tx.Exec(`UPDATE check_ins SET stress = ?, sleep = ?, diet = ?, water = ?, weather = ?, notes = ? WHERE id = ?`,
			checkIn.Factors.Stress, checkIn.Factors.Sleep, checkIn.Factors.Diet, checkIn.Factors.Water,
			checkIn.Factors.Weather, checkIn.Notes, checkIn.ID)
		if err != nil {
			return fmt.Errorf("failed to update check-in: %w", err)
		}
		if _, err = tx.Exec("DELETE FROM condition_entries WHERE check_in_id = ?", checkIn.ID); err != nil {
			return fmt.Errorf("failed to clear condition entries: %w", err)
		}
		if _, err = tx.Exec("DELETE FROM medication_entries WHERE check_in_id = ?", checkIn.ID); err != nil {
			return fmt.Errorf("failed to clear medication entries: %w", err)
		}
	}

	for _, entry := range checkIn.ConditionEntries {
		symptomsJSON, err := json.Marshal(entry.Symptoms)
		if err != nil {
			return fmt.Errorf("failed to marshal symptoms: %w", err)
		}
		_, err = tx.Exec("INSERT INTO condition_entries (check_in_id, condition_id, severity, symptoms_json) VALUES (?, ?, ?, ?)",
			checkIn.ID, entry.ConditionID, entry.Severity, string(symptomsJSON))
		if err != nil {
			return fmt.Errorf("failed to insert condition entry: %w", err)
		}
	}

	for _, entry := range checkIn.MedicationEntries {
		_, err = tx.Exec("INSERT INTO medication_entries (check_in_id, medication_id, taken) VALUES (?, ?, ?)",
			checkIn.ID, entry.MedicationID, entry.Taken)
		if err != nil {
			return fmt.Errorf("failed to insert medication entry: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetCheckInByDate(userID int64, date string) (*CheckIn, error) {
	checkIn, err := s.scanCheckIn(s.db.QueryRow(
		"SELECT id, user_id, date, stress, sleep, diet, water, weather, notes, created_at FROM check_ins WHERE user_id = ? AND date = ?",
		userID, date))
	if err != nil || checkIn == nil {
		return checkIn, err
	}
	if err := s.loadEntries(checkIn); err != nil {
		return nil, err
	}
	return checkIn, nil
}

func (s *SQLiteStore) GetCheckInsByUserID(userID int64) ([]CheckIn, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, date, stress, sleep, diet, water, weather, notes, created_at FROM check_ins WHERE user_id = ? ORDER BY date ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []CheckIn
	for rows.Next() {
		checkIn, err := s.scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, *checkIn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check-in rows: %w", err)
	}

	for i := range checkIns {
		if err := s.loadEntries(&checkIns[i]); err != nil {
			return nil, err
		}
	}
	return checkIns, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanCheckIn(row rowScanner) (*CheckIn, error) {
	var checkIn CheckIn
	var notes sql.NullString
	err := row.Scan(&checkIn.ID, &checkIn.UserID, &checkIn.Date,
		&checkIn.Factors.Stress, &checkIn.Factors.Sleep, &checkIn.Factors.Diet, &checkIn.Factors.Water,
		&checkIn.Factors.Weather, &notes, &checkIn.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to scan check-in row: %w", err)
	}
	if notes.Valid {
		checkIn.Notes = &notes.String
	}
	return &checkIn, nil
}

func (s *SQLiteStore) loadEntries(checkIn *CheckIn) error {
	condRows, err := s.db.Query("SELECT condition_id, severity, symptoms_json FROM condition_entries WHERE check_in_id = ?", checkIn.ID)
	if err != nil {
		return fmt.Errorf("failed to query condition entries: %w", err)
	}
	defer condRows.Close()

	for condRows.Next() {
		var entry ConditionEntry
		var symptomsJSON sql.NullString
		if err := condRows.Scan(&entry.ConditionID, &entry.Severity, &symptomsJSON); err != nil {
			return fmt.Errorf("failed to scan condition entry row: %w", err)
		}
		if symptomsJSON.Valid && symptomsJSON.String != "" {
			if err := json.Unmarshal([]byte(symptomsJSON.String), &entry.Symptoms); err != nil {
				return fmt.Errorf("failed to unmarshal symptoms for check-in %s: %w", checkIn.ID, err)
			}
		}
		checkIn.ConditionEntries = append(checkIn.ConditionEntries, entry)
	}
	if err := condRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate condition entry rows: %w", err)
	}

	medRows, err := s.db.Query("SELECT medication_id, taken FROM medication_entries WHERE check_in_id = ?", checkIn.ID)
	if err != nil {
		return fmt.Errorf("failed to query medication entries: %w", err)
	}
	defer medRows.Close()

	for medRows.Next() {
		var entry MedicationEntry
		if err := medRows.Scan(&entry.MedicationID, &entry.Taken); err != nil {
			return fmt.Errorf("failed to scan medication entry row: %w", err)
		}
		checkIn.MedicationEntries = append(checkIn.MedicationEntries, entry)
	}
	return medRows.Err()
}
