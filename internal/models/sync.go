package models

type SyncStatus string

const (
	SyncStatusIdle      SyncStatus = "idle"
	SyncStatusPending   SyncStatus = "pending"
	SyncStatusCommitted SyncStatus = "committed"
	SyncStatusFailed    SyncStatus = "failed"
)
