package database

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS mod_cases (
	id BIGSERIAL PRIMARY KEY,
	guild_id BIGINT NOT NULL,
	case_number BIGINT NOT NULL,
	target_user_id BIGINT,
	moderator_user_id BIGINT NOT NULL,
	action TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	duration_seconds BIGINT,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL,
	UNIQUE (guild_id, case_number)
)`, `
CREATE TABLE IF NOT EXISTS mod_case_events (
	id BIGSERIAL PRIMARY KEY,
	case_id BIGINT NOT NULL REFERENCES mod_cases(id),
	guild_id BIGINT NOT NULL,
	event_type TEXT NOT NULL,
	actor_user_id BIGINT NOT NULL,
	old_reason TEXT,
	new_reason TEXT,
	note TEXT,
	created_at BIGINT NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS mod_case_events_case_idx ON mod_case_events (case_id, created_at, id)`, `
CREATE TABLE IF NOT EXISTS warnings (
	id BIGSERIAL PRIMARY KEY,
	guild_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	moderator_id BIGINT NOT NULL,
	reason TEXT NOT NULL,
	warned_at BIGINT NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS warnings_guild_user_idx ON warnings (guild_id, user_id, warned_at)`, `
CREATE TABLE IF NOT EXISTS escalation_config (
	guild_id BIGINT PRIMARY KEY,
	enabled BOOLEAN NOT NULL DEFAULT FALSE,
	warn_threshold BIGINT NOT NULL DEFAULT 3,
	warn_window_seconds BIGINT NOT NULL DEFAULT 86400,
	timeout_window_seconds BIGINT NOT NULL DEFAULT 604800
)`, `
CREATE TABLE IF NOT EXISTS guild_mod_config (
	guild_id BIGINT PRIMARY KEY,
	modlog_channel_id BIGINT
)`, `
CREATE TABLE IF NOT EXISTS word_filter_config (
	guild_id BIGINT PRIMARY KEY,
	enabled BOOLEAN NOT NULL DEFAULT FALSE,
	action TEXT NOT NULL DEFAULT 'delete_and_log'
)`, `
CREATE TABLE IF NOT EXISTS word_filter_words (
	id BIGSERIAL PRIMARY KEY,
	guild_id BIGINT NOT NULL,
	word TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	UNIQUE (guild_id, word)
)`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS mod_cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id INTEGER NOT NULL,
	case_number INTEGER NOT NULL,
	target_user_id INTEGER,
	moderator_user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	duration_seconds INTEGER,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE (guild_id, case_number)
)`, `
CREATE TABLE IF NOT EXISTS mod_case_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id INTEGER NOT NULL REFERENCES mod_cases(id),
	guild_id INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	actor_user_id INTEGER NOT NULL,
	old_reason TEXT,
	new_reason TEXT,
	note TEXT,
	created_at INTEGER NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS mod_case_events_case_idx ON mod_case_events (case_id, created_at, id)`, `
CREATE TABLE IF NOT EXISTS warnings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	moderator_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	warned_at INTEGER NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS warnings_guild_user_idx ON warnings (guild_id, user_id, warned_at)`, `
CREATE TABLE IF NOT EXISTS escalation_config (
	guild_id INTEGER PRIMARY KEY,
	enabled BOOLEAN NOT NULL DEFAULT FALSE,
	warn_threshold INTEGER NOT NULL DEFAULT 3,
	warn_window_seconds INTEGER NOT NULL DEFAULT 86400,
	timeout_window_seconds INTEGER NOT NULL DEFAULT 604800
)`, `
CREATE TABLE IF NOT EXISTS guild_mod_config (
	guild_id INTEGER PRIMARY KEY,
	modlog_channel_id INTEGER
)`, `
CREATE TABLE IF NOT EXISTS word_filter_config (
	guild_id INTEGER PRIMARY KEY,
	enabled BOOLEAN NOT NULL DEFAULT FALSE,
	action TEXT NOT NULL DEFAULT 'delete_and_log'
)`, `
CREATE TABLE IF NOT EXISTS word_filter_words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id INTEGER NOT NULL,
	word TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE (guild_id, word)
)`,
}
