// /internal/storage/storage.go
package storage

import (
	"fmt"
	"sync"

	"server-herald/datastore"
	st "server-herald/internal/storagetypes"
)

const (
	commandHistoryLimit = 20
	errorHistoryLimit   = 50

	// globalKey holds records that do not belong to a guild.
	globalKey = "_global"
)

type Storage struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func recordKey(guildID string) string {
	if guildID == "" {
		return globalKey
	}
	return guildID
}

// getOrCreateGuildRecord must be called with s.mu held.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*st.Record, error) {
	var record st.Record
	if _, err := s.ds.GetInto(recordKey(guildID), &record); err != nil {
		return nil, fmt.Errorf("error reading guild record: %w", err)
	}
	if record.CommandsHistory == nil {
		record.CommandsHistory = []st.CommandHistory{}
	}
	if record.Errors == nil {
		record.Errors = []st.ErrorRecord{}
	}
	return &record, nil
}

// updateGuildRecord applies fn to the guild's record and stores the result.
func (s *Storage) updateGuildRecord(guildID string, fn func(r *st.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	fn(record)
	return s.ds.Add(recordKey(guildID), record)
}

func (s *Storage) readGuildRecord(guildID string) (*st.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateGuildRecord(guildID)
}

func trimTail[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[len(list)-limit:]
	}
	return list
}
