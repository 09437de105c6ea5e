package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"redditrequest-bot/models"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// dialect holds the SQL shapes that differ between engines. Adding another
// engine means adding another dialect literal, not another adapter.
type dialect struct {
	createSubmissions string
	createMessages    string
	createRedditors   string
	createPinned      string
	insertSubmission  string
	upsertRedditor    string
	upsertPinned      string
}

var sqliteDialect = dialect{
	createSubmissions: `
    CREATE TABLE IF NOT EXISTS submissions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        submission_id TEXT UNIQUE NOT NULL,
        subreddit TEXT,
        status TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`,
	createMessages: `
    CREATE TABLE IF NOT EXISTS messages (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        message_id TEXT UNIQUE NOT NULL,
        channel_id TEXT,
        guild_id TEXT,
        submission_id TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`,
	createRedditors: `
    CREATE TABLE IF NOT EXISTS redditors (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_name TEXT UNIQUE NOT NULL,
        user_id TEXT,
        request_count INTEGER DEFAULT 1,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`,
	createPinned: `
    CREATE TABLE IF NOT EXISTS pinned_submissions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        message_id TEXT UNIQUE NOT NULL,
        thread_id TEXT,
        guild_id TEXT,
        user_id TEXT,
        submission_id TEXT,
        update_count INTEGER DEFAULT 1,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );`,
	insertSubmission: `INSERT OR IGNORE INTO submissions (submission_id, subreddit, status) VALUES (?, ?, ?)`,
	upsertRedditor: `INSERT INTO redditors (user_name, user_id) VALUES (?, ?)
        ON CONFLICT(user_name) DO UPDATE SET request_count = request_count + 1, updated_at = CURRENT_TIMESTAMP`,
	upsertPinned: `INSERT INTO pinned_submissions (message_id, thread_id, guild_id, user_id, submission_id) VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(message_id) DO UPDATE SET update_count = update_count + 1, updated_at = CURRENT_TIMESTAMP`,
}

// sqliteStore is the SQLite adapter of the Store contract.
type sqliteStore struct {
	db  *sql.DB
	sql dialect
}

// openSQLite opens the database file, verifies the connection and ensures
// the schema exists.
func openSQLite(dbPath string) (Store, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &sqliteStore{db: db, sql: sqliteDialect}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return store, nil
}

func (s *sqliteStore) createTables() error {
	for _, query := range []string{
		s.sql.createSubmissions,
		s.sql.createMessages,
		s.sql.createRedditors,
		s.sql.createPinned,
	} {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqliteStore) SubmissionExists(id string) (bool, error) {
	var found string
	err := s.db.QueryRow("SELECT submission_id FROM submissions WHERE submission_id = ?", id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check submission %s: %w", id, err)
	}
	return true, nil
}

func (s *sqliteStore) PutSubmission(id, subreddit, status string) error {
	if _, err := s.db.Exec(s.sql.insertSubmission, id, subreddit, status); err != nil {
		return fmt.Errorf("failed to insert submission %s: %w", id, err)
	}
	return nil
}

func (s *sqliteStore) SubredditFor(submissionID string) (string, error) {
	var subreddit string
	err := s.db.QueryRow("SELECT subreddit FROM submissions WHERE submission_id = ?", submissionID).Scan(&subreddit)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get subreddit for submission %s: %w", submissionID, err)
	}
	return subreddit, nil
}

func (s *sqliteStore) UpsertRedditor(userName, userID string) error {
	if _, err := s.db.Exec(s.sql.upsertRedditor, userName, userID); err != nil {
		return fmt.Errorf("failed to upsert redditor %s: %w", userName, err)
	}
	return nil
}

func (s *sqliteStore) PutMessageBatch(batch []models.NotificationMessage) error {
	if len(batch) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(`INSERT OR IGNORE INTO messages (message_id, channel_id, guild_id, submission_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range batch {
		if _, err := stmt.Exec(msg.MessageID, msg.ChannelID, msg.GuildID, msg.SubmissionID); err != nil {
			return fmt.Errorf("failed to insert message %s: %w", msg.MessageID, err)
		}
	}
	return nil
}

func (s *sqliteStore) SubmissionIDFor(messageID, channelID string) (string, error) {
	var submissionID string
	err := s.db.QueryRow("SELECT submission_id FROM messages WHERE message_id = ? AND channel_id = ?", messageID, channelID).Scan(&submissionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve submission for message %s: %w", messageID, err)
	}
	return submissionID, nil
}

func (s *sqliteStore) MessageExists(messageID string) (bool, error) {
	var found string
	err := s.db.QueryRow("SELECT message_id FROM messages WHERE message_id = ?", messageID).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check message %s: %w", messageID, err)
	}
	return true, nil
}

func (s *sqliteStore) DeleteMessage(messageID string) error {
	if _, err := s.db.Exec("DELETE FROM messages WHERE message_id = ?", messageID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func (s *sqliteStore) ChannelsFor(submissionID string) ([]models.ChannelRef, error) {
	rows, err := s.db.Query("SELECT message_id, channel_id FROM messages WHERE submission_id = ?", submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels for submission %s: %w", submissionID, err)
	}
	defer rows.Close()

	var refs []models.ChannelRef
	for rows.Next() {
		var ref models.ChannelRef
		if err := rows.Scan(&ref.MessageID, &ref.ChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan channel ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *sqliteStore) PutPinnedThread(messageID, threadID, guildID, userID, submissionID string) error {
	if _, err := s.db.Exec(s.sql.upsertPinned, messageID, threadID, guildID, userID, submissionID); err != nil {
		return fmt.Errorf("failed to upsert pinned thread for message %s: %w", messageID, err)
	}
	return nil
}

func (s *sqliteStore) PinnedCountFor(userID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(user_id) FROM pinned_submissions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pinned threads for user %s: %w", userID, err)
	}
	return count, nil
}

func (s *sqliteStore) AllPinnedThreads() ([]models.PinnedThread, error) {
	rows, err := s.db.Query(`SELECT message_id, thread_id, guild_id, user_id, submission_id, update_count, created_at FROM pinned_submissions`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pinned threads: %w", err)
	}
	defer rows.Close()

	var threads []models.PinnedThread
	for rows.Next() {
		var t models.PinnedThread
		if err := rows.Scan(&t.MessageID, &t.ThreadID, &t.GuildID, &t.UserID, &t.SubmissionID, &t.UpdateCount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pinned thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func (s *sqliteStore) DeletePinnedThread(threadID string) error {
	if _, err := s.db.Exec("DELETE FROM pinned_submissions WHERE thread_id = ?", threadID); err != nil {
		return fmt.Errorf("failed to delete pinned thread %s: %w", threadID, err)
	}
	return nil
}

func (s *sqliteStore) StatusCounts() ([]models.StatusCount, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM submissions GROUP BY status ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	var counts []models.StatusCount
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *sqliteStore) TopRedditors(limit int) ([]models.Redditor, error) {
	rows, err := s.db.Query(`SELECT user_name, user_id, request_count FROM redditors ORDER BY request_count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top redditors: %w", err)
	}
	defer rows.Close()

	var redditors []models.Redditor
	for rows.Next() {
		var r models.Redditor
		if err := rows.Scan(&r.UserName, &r.UserID, &r.RequestCount); err != nil {
			return nil, fmt.Errorf("failed to scan redditor: %w", err)
		}
		redditors = append(redditors, r)
	}
	return redditors, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
