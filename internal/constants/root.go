package constants

import "time"

const (
	AppName             = "planner"
	DefaultKeyringUser  = "database-connection"
	TelegramKeyringUser = "telegram-token"
	DefaultConfigDir    = "~/.config/planner"
	DefaultConfigPath   = "~/.config/planner/config.yaml"
	DefaultDBPath       = "~/.config/planner/planner.db"
	Version             = "v0.3.0"

	// EnvDBConnection overrides the PostgreSQL connection string stored in the keyring.
	EnvDBConnection = "PLANNER_DB_CONNECTION"

	// Config overrides
	EnvDB             = "PLANNER_DB"
	EnvTelegramToken  = "PLANNER_TELEGRAM_TOKEN"
	EnvTelegramChatID = "PLANNER_TELEGRAM_CHAT_ID"
	EnvDebug          = "PLANNER_DEBUG"
	EnvFile           = ".env"

	// Digest constants
	DigestLockfileName  = "planner-digest.lock"
	DefaultDigestCron   = "0 7 * * *"
	DigestSendRetries   = 3
	DigestSendRetryWait = 500 * time.Millisecond

	// ICS constants
	ICSProductID = "-//julianstephens//planner//EN"
)
