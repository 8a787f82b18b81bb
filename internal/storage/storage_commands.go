package storage

import st "server-herald/internal/storagetypes"

// AppendCommandHistory records a command execution, keeping the newest entries.
func (s *Storage) AppendCommandHistory(guildID string, entry st.CommandHistory) error {
	return s.updateGuildRecord(guildID, func(r *st.Record) {
		r.CommandsHistory = trimTail(append(r.CommandsHistory, entry), commandHistoryLimit)
	})
}

func (s *Storage) GetCommandsHistory(guildID string) ([]st.CommandHistory, error) {
	record, err := s.readGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}
