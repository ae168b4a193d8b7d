package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrSessionExpired = errors.New("session is expired")
)

func (p *Pool) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	row := p.QueryRow(ctx, `
		INSERT INTO craft.users (username, password_hash)
		VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING
		RETURNING user_id, user_uuid, username, password_hash, created_at, last_login_at
	`, username, passwordHash)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (p *Pool) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := p.QueryRow(ctx, `
		SELECT user_id, user_uuid, username, password_hash, created_at, last_login_at
		FROM craft.users
		WHERE username = ?
	`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

func (p *Pool) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	row := p.QueryRow(ctx, `
		SELECT user_id, user_uuid, username, password_hash, created_at, last_login_at
		FROM craft.users
		WHERE user_id = ?
	`, userID)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

func (p *Pool) MarkUserLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := p.Exec(ctx, `
		UPDATE craft.users
		SET last_login_at = ?
		WHERE user_id = ?
	`, at.UTC(), userID)
	if err != nil {
		return fmt.Errorf("mark user login: %w", err)
	}
	return nil
}

func (p *Pool) CreateSession(ctx context.Context, sessionID string, userID int64, expiresAt time.Time) error {
	_, err := p.Exec(ctx, `
		INSERT INTO craft.sessions (session_id, user_id, expires_at, last_seen_at)
		VALUES (?, ?, ?, now())
	`, sessionID, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession returns the session together with the owning user's identity.
// Expired sessions are deleted on read.
func (p *Pool) GetSession(ctx context.Context, sessionID string) (*Session, *User, error) {
	row := p.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, s.expires_at, s.last_seen_at, s.created_at,
		       u.user_id, u.user_uuid, u.username, u.password_hash, u.created_at, u.last_login_at
		FROM craft.sessions s
		JOIN craft.users u ON u.user_id = s.user_id
		WHERE s.session_id = ?
	`, sessionID)

	var (
		session   Session
		user      User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&session.SessionID, &session.UserID, &session.ExpiresAt, &session.LastSeenAt, &session.CreatedAt,
		&user.UserID, &user.UserUUID, &user.Username, &user.PasswordHash, &user.CreatedAt, &lastLogin,
	)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, nil, ErrNoRows
		}
		return nil, nil, fmt.Errorf("query session: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}

	if !session.ExpiresAt.After(time.Now().UTC()) {
		_ = p.DeleteSession(ctx, sessionID)
		return nil, nil, ErrSessionExpired
	}

	return &session, &user, nil
}

func (p *Pool) TouchSession(ctx context.Context, sessionID string, seenAt time.Time) error {
	_, err := p.Exec(ctx, `
		UPDATE craft.sessions
		SET last_seen_at = ?
		WHERE session_id = ?
	`, seenAt.UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (p *Pool) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := p.Exec(ctx, `
		DELETE FROM craft.sessions
		WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (p *Pool) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := p.Exec(ctx, `
		DELETE FROM craft.sessions
		WHERE expires_at <= now()
	`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanUser(row *Row) (*User, error) {
	var (
		user      User
		lastLogin sql.NullTime
	)
	err := row.Scan(&user.UserID, &user.UserUUID, &user.Username, &user.PasswordHash, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return &user, nil
}
